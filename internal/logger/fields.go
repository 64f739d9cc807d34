package logger

import "go.uber.org/zap"

// Field helpers keep key names consistent across components.

func GalleryID(v string) zap.Field {
	return zap.String("gallery_id", v)
}

func PhotoID(v string) zap.Field {
	return zap.String("photo_id", v)
}

func InquiryID(v string) zap.Field {
	return zap.String("inquiry_id", v)
}

func StorageKey(v string) zap.Field {
	return zap.String("storage_key", v)
}

func Operation(v string) zap.Field {
	return zap.String("op", v)
}
