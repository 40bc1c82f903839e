package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/reqbind/core/binder"
	"github.com/dmitrymomot/reqbind/core/logger"
	"github.com/dmitrymomot/reqbind/core/response"
)

type getUserRequest struct {
	ID        int64     `path:"id"`
	RequestID uuid.UUID `ctx:"request_id"`
	Locale    string    `header:"Accept-Language"`
	Fields    []string  `query:"fields"`
	Verbose   *bool     `query:"verbose"`
}

type createOrderRequest struct {
	UserID    int64       `path:"id"`
	RequestID uuid.UUID   `ctx:"request_id"`
	IdemKey   *string     `header:"Idempotency-Key"`
	Items     []orderItem `json:"items"`
	Note      string      `json:"note"`
	Currency  string      `json:"currency"`
}

type orderItem struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

func (r *createOrderRequest) SetDefaults() {
	r.Currency = "USD"
}

type feedbackRequest struct {
	_         struct{} `bind:"default(form)"`
	Message   string
	Rating    int      `form:"rating"`
	Tags      []string `form:"tags"`
	Subscribe bool     `form:"subscribe"`
	Source    string   `query:"src"`
}

type api struct {
	log         *slog.Logger
	getUserPlan *binder.Plan[getUserRequest]
	orderPlan   *binder.Plan[createOrderRequest]
	feedback    *binder.Plan[feedbackRequest]
}

func newAPI(cfg binder.Config, log *slog.Logger) *api {
	opts := []binder.Option{binder.WithConfig(cfg), binder.WithLogger(log)}
	return &api{
		log:         log,
		getUserPlan: binder.MustCompile[getUserRequest](opts...),
		orderPlan:   binder.MustCompile[createOrderRequest](opts...),
		feedback:    binder.MustCompile[feedbackRequest](opts...),
	}
}

func (a *api) getUser(w http.ResponseWriter, r *http.Request) {
	req, err := a.getUserPlan.BindHTTP(r, binder.Extract(r, chi.URLParam))
	if err != nil {
		a.reject(w, r, err)
		return
	}
	response.Render(w, r, response.JSON(req))
}

func (a *api) createOrder(w http.ResponseWriter, r *http.Request) {
	req, err := a.orderPlan.BindHTTP(r, binder.Extract(r, chi.URLParam))
	if err != nil {
		a.reject(w, r, err)
		return
	}
	response.Render(w, r, response.JSONWithStatus(req, http.StatusCreated))
}

func (a *api) submitFeedback(w http.ResponseWriter, r *http.Request) {
	req, err := a.feedback.BindHTTP(r, nil)
	if err != nil {
		a.reject(w, r, err)
		return
	}
	response.Render(w, r, response.JSONWithStatus(req, http.StatusAccepted))
}

func (a *api) reject(w http.ResponseWriter, r *http.Request, err error) {
	a.log.DebugContext(r.Context(), "request rejected",
		logger.Component("api"),
		logger.Path(r.URL.Path),
		logger.Error(err),
	)
	response.Error(w, r, err)
}
