package repository

import (
	"context"
	"testing"
	"time"

	"github.com/lensfolio/internal/db"
	"github.com/lensfolio/internal/domain"
)

func newInquiryInput(name, email, subject string) domain.CreateInquiryInput {
	return domain.CreateInquiryInput{
		Name:        name,
		Email:       email,
		Subject:     subject,
		Message:     "We would love to book a session next spring.",
		InquiryType: domain.InquiryBooking,
	}
}

func TestInquiryCreateSanitisesAndDefaults(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	phone := "  "
	res := repos.inquiries.Create(ctx, domain.CreateInquiryInput{
		Name:    "<b>Leilani</b> Kahale",
		Email:   " Leilani@Example.COM ",
		Phone:   &phone,
		Subject: "Wedding <script>alert(1)</script>date",
		Message: "Hello! Are you free on June 14th?",
	})
	if res.IsFailure() {
		t.Fatalf("create inquiry: %v", res.Err())
	}
	got := res.Value()
	if got.Name != "Leilani Kahale" {
		t.Fatalf("expected markup to be stripped, got %q", got.Name)
	}
	if got.Subject != "Wedding date" {
		t.Fatalf("expected script to be stripped, got %q", got.Subject)
	}
	if got.Email != "leilani@example.com" {
		t.Fatalf("expected normalised email, got %q", got.Email)
	}
	if got.Phone != nil {
		t.Fatalf("expected blank phone to be dropped, got %q", *got.Phone)
	}
	if got.Status != domain.InquiryStatusNew || got.InquiryType != domain.InquiryGeneral || got.Source != "website" {
		t.Fatalf("unexpected defaults %+v", got)
	}
	if got.SubmittedAt.IsZero() || got.RespondedAt != nil || got.ResolvedAt != nil {
		t.Fatalf("unexpected timestamps %+v", got)
	}
}

func TestInquiryCreateStripsEntityEncodedMarkup(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	res := repos.inquiries.Create(ctx, domain.CreateInquiryInput{
		Name:    "Kai &amp; Noe",
		Email:   "kai@example.com",
		Subject: "&lt;script&gt;alert(1)&lt;/script&gt;Booking",
		Message: "&lt;img src=x onerror=alert(1)&gt; hello there",
	})
	if res.IsFailure() {
		t.Fatalf("create inquiry: %v", res.Err())
	}

	stored := repos.inquiries.FindByID(ctx, res.Value().ID)
	if stored.IsFailure() {
		t.Fatalf("find inquiry: %v", stored.Err())
	}
	got := stored.Value()
	if got.Subject != "Booking" || got.Message != "hello there" || got.Name != "Kai & Noe" {
		t.Fatalf("unexpected sanitised inquiry %q / %q / %q", got.Name, got.Subject, got.Message)
	}
}

func TestInquiryCreateRejectsInvalidInput(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	res := repos.inquiries.Create(ctx, domain.CreateInquiryInput{
		Name:        "Kai",
		Email:       "not-an-email",
		Subject:     "Hi",
		Message:     "short",
		InquiryType: "carrier-pigeon",
	})
	if !domain.IsKind(res.Err(), domain.KindValidation) {
		t.Fatalf("expected validation error, got %v", res.Err())
	}
	for _, field := range []string{"email", "message", "inquiryType"} {
		if _, ok := res.Err().Fields[field]; !ok {
			t.Fatalf("expected field error for %s, got %v", field, res.Err().Fields)
		}
	}
	if n := countRows(t, repos.db, &db.Inquiry{}); n != 0 {
		t.Fatalf("expected no rows, got %d", n)
	}
}

func TestInquiryStatusTransitions(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	created := repos.inquiries.Create(ctx, newInquiryInput("Kai", "kai@example.com", "Engagement shoot")).Value()

	read := repos.inquiries.MarkAsRead(ctx, created.ID)
	if read.IsFailure() || read.Value().Status != domain.InquiryStatusRead {
		t.Fatalf("expected read status, got %v %v", read.Value(), read.Err())
	}

	replied := domain.InquiryStatusReplied
	res := repos.inquiries.Update(ctx, created.ID, domain.UpdateInquiryInput{Status: &replied})
	if res.IsFailure() {
		t.Fatalf("update inquiry: %v", res.Err())
	}
	if res.Value().RespondedAt == nil {
		t.Fatalf("expected responded at to be stamped")
	}
	respondedAt := *res.Value().RespondedAt

	resolved := domain.InquiryStatusResolved
	res = repos.inquiries.Update(ctx, created.ID, domain.UpdateInquiryInput{Status: &resolved})
	if res.IsFailure() || res.Value().ResolvedAt == nil {
		t.Fatalf("expected resolved at to be stamped, got %v %v", res.Value(), res.Err())
	}
	if !res.Value().RespondedAt.Equal(respondedAt) {
		t.Fatalf("expected responded at to be kept")
	}

	explicit := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	res = repos.inquiries.Update(ctx, created.ID, domain.UpdateInquiryInput{ResolvedAt: &explicit})
	if res.IsFailure() || !res.Value().ResolvedAt.Equal(explicit) {
		t.Fatalf("expected explicit resolved at, got %v %v", res.Value(), res.Err())
	}

	spam := repos.inquiries.MarkAsSpam(ctx, created.ID)
	if spam.IsFailure() || spam.Value().Status != domain.InquiryStatusSpam {
		t.Fatalf("expected spam status, got %v %v", spam.Value(), spam.Err())
	}

	bogus := domain.InquiryStatus("lost")
	if res := repos.inquiries.Update(ctx, created.ID, domain.UpdateInquiryInput{Status: &bogus}); !domain.IsKind(res.Err(), domain.KindValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", res.Err())
	}
	if res := repos.inquiries.MarkAsRead(ctx, "ghost"); !domain.IsKind(res.Err(), domain.KindNotFound) {
		t.Fatalf("expected not found, got %v", res.Err())
	}
}

func TestInquirySearch(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	repos.inquiries.Create(ctx, newInquiryInput("Kai Akana", "kai@example.com", "Engagement shoot"))
	repos.inquiries.Create(ctx, newInquiryInput("Mele", "mele@studio.test", "Pricing for 50% off promo"))
	repos.inquiries.Create(ctx, newInquiryInput("Noa", "noa@example.com", "Family portraits"))

	cases := map[string]int{
		"KAI":         1,
		"example.com": 2,
		"50%":         1,
		"%":           1,
		"spring":      3,
		"nothing":     0,
	}
	for query, want := range cases {
		res := repos.inquiries.Search(ctx, query)
		if res.IsFailure() {
			t.Fatalf("search %q: %v", query, res.Err())
		}
		if len(res.Value()) != want {
			t.Fatalf("search %q: expected %d results, got %d", query, want, len(res.Value()))
		}
	}

	if res := repos.inquiries.Search(ctx, "   "); !domain.IsKind(res.Err(), domain.KindValidation) {
		t.Fatalf("expected validation error for blank query, got %v", res.Err())
	}
}

func TestInquiryFindAllAndStats(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	now := time.Date(2024, 6, 12, 15, 0, 0, 0, time.UTC) // Wednesday
	stamps := []time.Time{
		now.Add(-time.Hour),   // today
		now.AddDate(0, 0, -1), // this week
		now.AddDate(0, 0, -5), // this month, last week
		now.AddDate(0, -2, 0), // older
	}
	ids := make([]string, 0, len(stamps))
	for i, at := range stamps {
		repos.inquiries.now = func() time.Time { return at }
		res := repos.inquiries.Create(ctx, newInquiryInput("Guest", "guest@example.com", "Subject "+string(rune('A'+i))))
		if res.IsFailure() {
			t.Fatalf("create inquiry: %v", res.Err())
		}
		ids = append(ids, res.Value().ID)
	}
	repos.inquiries.now = func() time.Time { return now }
	repos.inquiries.MarkAsSpam(ctx, ids[3])

	list := repos.inquiries.FindAll(ctx, domain.InquiryFilter{})
	if list.IsFailure() || len(list.Value()) != 4 || list.Value()[0].ID != ids[0] {
		t.Fatalf("expected newest first, got %v %v", list.Value(), list.Err())
	}

	spam := domain.InquiryStatusSpam
	filtered := repos.inquiries.FindAll(ctx, domain.InquiryFilter{Status: &spam})
	if filtered.IsFailure() || len(filtered.Value()) != 1 || filtered.Value()[0].ID != ids[3] {
		t.Fatalf("expected one spam inquiry, got %v %v", filtered.Value(), filtered.Err())
	}

	from := now.AddDate(0, 0, -2)
	ranged := repos.inquiries.FindAll(ctx, domain.InquiryFilter{ListOptions: domain.ListOptions{DateFrom: &from}})
	if ranged.IsFailure() || len(ranged.Value()) != 2 {
		t.Fatalf("expected two recent inquiries, got %v %v", ranged.Value(), ranged.Err())
	}

	stats := repos.inquiries.GetStats(ctx)
	if stats.IsFailure() {
		t.Fatalf("get stats: %v", stats.Err())
	}
	got := stats.Value()
	if got.Total != 4 || got.Today != 1 || got.ThisWeek != 2 || got.ThisMonth != 3 {
		t.Fatalf("unexpected stats %+v", got)
	}
	if got.ByStatus[domain.InquiryStatusNew] != 3 || got.ByStatus[domain.InquiryStatusSpam] != 1 || got.ByStatus[domain.InquiryStatusResolved] != 0 {
		t.Fatalf("unexpected status counts %v", got.ByStatus)
	}
}

func TestInquiryFindAllDateRangeAcrossOffsets(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	brisbane := time.FixedZone("AEST", 10*60*60)
	early := time.Date(2024, 6, 12, 1, 0, 0, 0, brisbane) // 2024-06-11 15:00Z
	late := time.Date(2024, 6, 11, 22, 0, 0, 0, time.UTC)

	repos.inquiries.now = func() time.Time { return early }
	first := repos.inquiries.Create(ctx, newInquiryInput("Aroha", "aroha@example.com", "Early"))
	repos.inquiries.now = func() time.Time { return late }
	second := repos.inquiries.Create(ctx, newInquiryInput("Mika", "mika@example.com", "Late"))
	if first.IsFailure() || second.IsFailure() {
		t.Fatalf("create inquiries: %v %v", first.Err(), second.Err())
	}
	if !first.Value().SubmittedAt.Equal(early) {
		t.Fatalf("expected submitted at %v, got %v", early, first.Value().SubmittedAt)
	}

	at := func(value string) *time.Time {
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			t.Fatalf("parse %q: %v", value, err)
		}
		return &parsed
	}

	tests := []struct {
		name string
		opts domain.ListOptions
		want []string
	}{
		{"from in utc", domain.ListOptions{DateFrom: at("2024-06-11T20:00:00Z")}, []string{second.Value().ID}},
		{"to in utc", domain.ListOptions{DateTo: at("2024-06-11T18:00:00Z")}, []string{first.Value().ID}},
		{"to in local offset", domain.ListOptions{DateTo: at("2024-06-12T04:00:00+10:00")}, []string{first.Value().ID}},
		{"from in negative offset", domain.ListOptions{DateFrom: at("2024-06-11T10:30:00-05:00")}, []string{second.Value().ID}},
		{"window", domain.ListOptions{DateFrom: at("2024-06-11T14:00:00Z"), DateTo: at("2024-06-12T06:00:00+10:00")}, []string{first.Value().ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := repos.inquiries.FindAll(ctx, domain.InquiryFilter{ListOptions: tt.opts})
			if res.IsFailure() {
				t.Fatalf("list inquiries: %v", res.Err())
			}
			got := make([]string, 0, len(res.Value()))
			for _, inquiry := range res.Value() {
				got = append(got, inquiry.ID)
			}
			if len(got) != len(tt.want) || (len(got) > 0 && got[0] != tt.want[0]) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestInquiryDelete(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	created := repos.inquiries.Create(ctx, newInquiryInput("Kai", "kai@example.com", "Hello")).Value()
	if res := repos.inquiries.Delete(ctx, created.ID); res.IsFailure() {
		t.Fatalf("delete inquiry: %v", res.Err())
	}
	if res := repos.inquiries.FindByID(ctx, created.ID); !domain.IsKind(res.Err(), domain.KindNotFound) {
		t.Fatalf("expected not found after delete, got %v", res.Err())
	}
	if res := repos.inquiries.Delete(ctx, created.ID); !domain.IsKind(res.Err(), domain.KindNotFound) {
		t.Fatalf("expected not found on second delete, got %v", res.Err())
	}
}
