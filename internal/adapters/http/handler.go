package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rty-renty/SuanMing/internal/app"
	"github.com/rty-renty/SuanMing/internal/domain"
)

// MistsMessage is the only failure text shown to end users.
const MistsMessage = "云雾遮蔽了天机，请稍后再试。"

type Handler struct {
	svc *app.DivinationService
}

func NewHandler(svc *app.DivinationService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.POST("/v1/divination", h.Divine)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) Divine(c echo.Context) error {
	var body DivinationRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "request body must be JSON with name and birth_date"})
	}

	req, err := domain.NewFortuneRequest(body.Name, body.BirthDate)
	if err != nil {
		return mapError(c, err)
	}

	resp := h.svc.Divine(c.Request().Context(), app.DivineRequest{
		Name:      req.Name,
		BirthDate: req.BirthDate,
	})

	requestID, _ := c.Get("request_id").(string)

	return c.JSON(http.StatusOK, toResponse(resp, requestID))
}

func toResponse(r app.DivineResponse, requestID string) DivinationResponse {
	return DivinationResponse{
		Fortune: FortuneResp{
			SpiritRoot:    r.Fortune.SpiritRoot,
			Realm:         r.Fortune.Realm,
			Element:       r.Fortune.Element,
			Poem:          r.Fortune.Poem,
			Analysis:      r.Fortune.Analysis,
			LuckyArtifact: r.Fortune.LuckyArtifact,
		},
		Meta: MetaResp{
			Source:    r.Source,
			Model:     r.Model,
			RequestID: requestID,
			LatencyMS: r.LatencyMS,
		},
	}
}

func mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrNameTooLong),
		errors.Is(err, domain.ErrInvalidBirthDate):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		return err
	}
}

// ErrorHandler renders routing errors as-is and everything else, panics
// included, as the generic mists message.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		requestID, _ := c.Get("request_id").(string)

		status := http.StatusInternalServerError
		msg := MistsMessage
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
			status = he.Code
			msg = http.StatusText(he.Code)
		} else {
			logger.Error("internal error", "request_id", requestID, "error", err)
		}

		if err := c.JSON(status, ErrorResponse{Error: msg}); err != nil {
			logger.Error("write error response", "request_id", requestID, "error", err)
		}
	}
}
