package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lensfolio/internal/domain"
)

// SubmitInquiry accepts a contact-form submission from the public site.
func (a *API) SubmitInquiry(c *gin.Context) {
	var payload domain.CreateInquiryInput
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	res := a.inquiries.Create(c.Request.Context(), payload)
	if res.IsFailure() {
		a.respondDomainError(c, res.Err())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "感谢您的留言，我们会尽快回复", "id": res.Value().ID})
}

// ListInquiries returns inquiries filtered by status and type.
func (a *API) ListInquiries(c *gin.Context) {
	opts, err := parseListOptions(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	filter := domain.InquiryFilter{ListOptions: opts}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := domain.InquiryStatus(strings.ToLower(raw))
		if !status.Valid() {
			respondError(c, http.StatusBadRequest, "无效的留言状态")
			return
		}
		filter.Status = &status
	}
	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		inquiryType := domain.InquiryType(strings.ToLower(raw))
		if !inquiryType.Valid() {
			respondError(c, http.StatusBadRequest, "无效的留言类型")
			return
		}
		filter.InquiryType = &inquiryType
	}
	respondItems(a, c, a.inquiries.FindAll(c.Request.Context(), filter))
}

// GetInquiry returns one inquiry.
func (a *API) GetInquiry(c *gin.Context) {
	respondItem(a, c, http.StatusOK, a.inquiries.FindByID(c.Request.Context(), c.Param("id")))
}

// UpdateInquiry applies an admin triage update.
func (a *API) UpdateInquiry(c *gin.Context) {
	var payload domain.UpdateInquiryInput
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}
	respondItem(a, c, http.StatusOK, a.inquiries.Update(c.Request.Context(), c.Param("id"), payload))
}

// DeleteInquiry removes an inquiry.
func (a *API) DeleteInquiry(c *gin.Context) {
	res := a.inquiries.Delete(c.Request.Context(), c.Param("id"))
	if res.IsFailure() {
		a.respondDomainError(c, res.Err())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "留言已删除"})
}

// MarkInquiryRead sets the status to read.
func (a *API) MarkInquiryRead(c *gin.Context) {
	respondItem(a, c, http.StatusOK, a.inquiries.MarkAsRead(c.Request.Context(), c.Param("id")))
}

// MarkInquirySpam sets the status to spam.
func (a *API) MarkInquirySpam(c *gin.Context) {
	respondItem(a, c, http.StatusOK, a.inquiries.MarkAsSpam(c.Request.Context(), c.Param("id")))
}

// SearchInquiries matches q against name, email, subject and message.
func (a *API) SearchInquiries(c *gin.Context) {
	respondItems(a, c, a.inquiries.Search(c.Request.Context(), c.Query("q")))
}

// InquiryStats returns inquiry volume counters.
func (a *API) InquiryStats(c *gin.Context) {
	respondItem(a, c, http.StatusOK, a.inquiries.GetStats(c.Request.Context()))
}
