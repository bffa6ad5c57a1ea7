// Package handler exposes the chat engine over REST. The live channel has
// its own entrypoint in the ws package; everything request/response shaped
// lands here.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"chatflow/internal/chat/service"
	"chatflow/internal/common"
	"chatflow/internal/convcache"
	"chatflow/internal/gateway"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// ConversationReader is the slice of the read-model cache the handler serves
// GET endpoints from.
type ConversationReader interface {
	GetConversationList(ctx context.Context, userID string) ([]convcache.Summary, error)
	GetUnreadTotal(ctx context.Context, userID string) (int64, error)
}

type ChatHandler struct {
	service service.ChatService
	cache   ConversationReader
	devices gateway.DeviceRepository
}

func NewChatHandler(svc service.ChatService, cache ConversationReader, devices gateway.DeviceRepository) *ChatHandler {
	return &ChatHandler{service: svc, cache: cache, devices: devices}
}

// Routes mounts the REST surface on the given router. Callers wrap the
// router with auth middleware; handlers assume a user in the context.
func (h *ChatHandler) Routes(r *mux.Router) {
	r.HandleFunc("/messages", h.sendMessage).Methods("POST")
	r.HandleFunc("/messages/{id}/read", h.markRead).Methods("POST")
	r.HandleFunc("/messages/{id}/pin", h.setPinned).Methods("POST")
	r.HandleFunc("/messages/{id}", h.deleteMessage).Methods("DELETE")
	r.HandleFunc("/conversations", h.listConversations).Methods("GET")
	r.HandleFunc("/conversations/unread", h.unreadTotal).Methods("GET")
	r.HandleFunc("/conversations/{peer}/messages", h.history).Methods("GET")
	r.HandleFunc("/conversations/{peer}/read", h.bulkRead).Methods("POST")
	r.HandleFunc("/groups/{groupID}/messages", h.groupHistory).Methods("GET")
	r.HandleFunc("/devices", h.registerDevice).Methods("POST")
}

type sendMessageRequest struct {
	RecipientID string   `json:"recipient_id"`
	GroupID     string   `json:"group_id"`
	Content     string   `json:"content"`
	Type        string   `json:"message_type"`
	MediaRef    string   `json:"media_ref"`
	ReplyToID   string   `json:"reply_to_id"`
	Mentions    []string `json:"mentions"`
}

func (h *ChatHandler) sendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserFromContext(r.Context())
	if !ok {
		respondError(w, &common.AuthorizationError{Actor: "unknown", Action: "send message"})
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, &common.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	if req.Type == "" {
		req.Type = string(common.TypeText)
	}

	msg, err := h.service.SendMessage(r.Context(), service.SendRequest{
		SenderID:    userID,
		RecipientID: req.RecipientID,
		GroupID:     req.GroupID,
		Content:     req.Content,
		Type:        common.MessageType(req.Type),
		MediaRef:    req.MediaRef,
		ReplyToID:   req.ReplyToID,
		Mentions:    req.Mentions,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}

func (h *ChatHandler) markRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserFromContext(r.Context())
	if !ok {
		respondError(w, &common.AuthorizationError{Actor: "unknown", Action: "mark read"})
		return
	}

	msg, err := h.service.MarkRead(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, msg)
}

type setPinnedRequest struct {
	Pinned bool `json:"pinned"`
}

func (h *ChatHandler) setPinned(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserFromContext(r.Context())
	if !ok {
		respondError(w, &common.AuthorizationError{Actor: "unknown", Action: "pin message"})
		return
	}

	req := setPinnedRequest{Pinned: true}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, &common.ValidationError{Field: "body", Reason: "malformed JSON"})
			return
		}
	}

	msg, err := h.service.SetPinned(r.Context(), mux.Vars(r)["id"], userID, req.Pinned)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, msg)
}

func (h *ChatHandler) deleteMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserFromContext(r.Context())
	if !ok {
		respondError(w, &common.AuthorizationError{Actor: "unknown", Action: "delete message"})
		return
	}

	forEveryone := r.URL.Query().Get("for_everyone") == "true"
	if err := h.service.SoftDelete(r.Context(), mux.Vars(r)["id"], userID, forEveryone); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChatHandler) listConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserFromContext(r.Context())
	if !ok {
		respondError(w, &common.AuthorizationError{Actor: "unknown", Action: "list conversations"})
		return
	}

	summaries, err := h.cache.GetConversationList(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"conversations": summaries})
}

func (h *ChatHandler) unreadTotal(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserFromContext(r.Context())
	if !ok {
		respondError(w, &common.AuthorizationError{Actor: "unknown", Action: "read unread total"})
		return
	}

	total, err := h.cache.GetUnreadTotal(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"total": total})
}

func (h *ChatHandler) history(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserFromContext(r.Context())
	if !ok {
		respondError(w, &common.AuthorizationError{Actor: "unknown", Action: "read history"})
		return
	}

	limit, offset := pagination(r)
	msgs, err := h.service.History(r.Context(), userID, mux.Vars(r)["peer"], limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (h *ChatHandler) groupHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserFromContext(r.Context())
	if !ok {
		respondError(w, &common.AuthorizationError{Actor: "unknown", Action: "read group history"})
		return
	}

	limit, offset := pagination(r)
	msgs, err := h.service.GroupHistory(r.Context(), userID, mux.Vars(r)["groupID"], limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (h *ChatHandler) bulkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserFromContext(r.Context())
	if !ok {
		respondError(w, &common.AuthorizationError{Actor: "unknown", Action: "mark conversation read"})
		return
	}

	count, err := h.service.BulkMarkRead(r.Context(), userID, mux.Vars(r)["peer"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"marked_read": count})
}

type registerDeviceRequest struct {
	DeviceToken string `json:"device_token"`
	Platform    string `json:"platform"`
}

func (h *ChatHandler) registerDevice(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserFromContext(r.Context())
	if !ok {
		respondError(w, &common.AuthorizationError{Actor: "unknown", Action: "register device"})
		return
	}

	var req registerDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DeviceToken == "" {
		respondError(w, &common.ValidationError{Field: "device_token", Reason: "required"})
		return
	}

	if err := h.devices.RegisterDevice(r.Context(), userID, req.DeviceToken, req.Platform); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pagination(r *http.Request) (limit, offset int) {
	limit = defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("handler: encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case common.IsValidation(err):
		status = http.StatusBadRequest
	case common.IsNotFound(err):
		status = http.StatusNotFound
	case common.IsAuthorization(err):
		status = http.StatusForbidden
	case common.IsConflict(err):
		status = http.StatusConflict
	default:
		var downstream *common.DownstreamError
		if errors.As(err, &downstream) {
			status = http.StatusBadGateway
		}
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
