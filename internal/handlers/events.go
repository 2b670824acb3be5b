package handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/localmarket/hub/internal/mykafka"
)

const (
	userEventsTopic  = "user_events"
	orderEventsTopic = "order_events"
)

// publishEvent is fire-and-forget: a broker failure is logged and never
// fails the parent request.
func publishEvent(c echo.Context, p *mykafka.Producer, topic, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
