package server

import (
	"crypto/subtle"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"

	"homestock/internal/gateway/telegram"
)

// WebhookHandler feeds Telegram webhook posts into the same dispatch path
// as long polling. The secret path segment keeps strangers out.
type WebhookHandler struct {
	adapter *telegram.Adapter
	secret  string
}

func (w *WebhookHandler) Receive(c echo.Context) error {
	if subtle.ConstantTimeCompare([]byte(c.Param("secret")), []byte(w.secret)) != 1 {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	var upd tgbotapi.Update
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed update")
	}

	w.adapter.HandleUpdate(c.Request().Context(), upd)
	return c.NoContent(http.StatusOK)
}
