package handler

import (
	"encoding/json"
	"net/http"

	"aiblecode/internal/api/middleware"
	"aiblecode/internal/app/service"
	"aiblecode/internal/common"

	"github.com/go-chi/chi/v5"
)

type ProblemHandler struct {
	problemService *service.ProblemService
}

func NewProblemHandler(problemService *service.ProblemService) *ProblemHandler {
	return &ProblemHandler{problemService: problemService}
}

func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listCategories)
	r.Get("/{categoryPathID}", h.listProblems)
	r.Get("/{categoryPathID}/{problemPathID}", h.getProblem)

	// Authoring routes are admin-only.
	r.Group(func(admin chi.Router) {
		admin.Use(middleware.Authenticator)
		admin.Use(middleware.AdminOnly)
		admin.Put("/", h.upsertCategory)
		admin.Put("/{categoryPathID}", h.upsertProblem)
		admin.Put("/{categoryPathID}/{problemPathID}/testcases", h.upsertTestcase)
	})
}

func (h *ProblemHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.problemService.ListCategories(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *ProblemHandler) listProblems(w http.ResponseWriter, r *http.Request) {
	categoryPathID := chi.URLParam(r, "categoryPathID")
	problems, err := h.problemService.ListProblems(r.Context(), categoryPathID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problems)
}

func (h *ProblemHandler) getProblem(w http.ResponseWriter, r *http.Request) {
	categoryPathID := chi.URLParam(r, "categoryPathID")
	problemPathID := chi.URLParam(r, "problemPathID")
	problem, err := h.problemService.GetProblem(r.Context(), categoryPathID, problemPathID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}

func (h *ProblemHandler) upsertCategory(w http.ResponseWriter, r *http.Request) {
	var req service.UpsertCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	category, err := h.problemService.UpsertCategory(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, category)
}

func (h *ProblemHandler) upsertProblem(w http.ResponseWriter, r *http.Request) {
	var req service.UpsertProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	req.CategoryPathID = chi.URLParam(r, "categoryPathID")
	problem, err := h.problemService.UpsertProblem(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}

func (h *ProblemHandler) upsertTestcase(w http.ResponseWriter, r *http.Request) {
	var req service.UpsertTestcaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	req.CategoryPathID = chi.URLParam(r, "categoryPathID")
	req.ProblemPathID = chi.URLParam(r, "problemPathID")
	testcase, err := h.problemService.UpsertTestcase(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, testcase)
}
