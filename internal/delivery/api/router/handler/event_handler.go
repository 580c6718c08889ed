package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	deliverycontext "emart/internal/delivery/context"
	domainerrors "emart/internal/domain/errors"
	"emart/internal/domain/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// DefaultHeartbeat keeps idle event streams open through proxies.
const DefaultHeartbeat = 25 * time.Second

// EventHandlerParams holds dependencies for EventHandler, injected by Fx.
type EventHandlerParams struct {
	fx.In

	EventBus service.EventBus
	Logger   *slog.Logger
}

// EventHandler streams invalidation events to browsers as Server-Sent Events.
type EventHandler struct {
	eventBus  service.EventBus
	heartbeat time.Duration
	logger    *slog.Logger
}

// NewEventHandler is the constructor for EventHandler
func NewEventHandler(params EventHandlerParams) *EventHandler {
	return &EventHandler{
		eventBus:  params.EventBus,
		heartbeat: DefaultHeartbeat,
		logger:    params.Logger,
	}
}

// Stream subscribes to ?topics=a,b (every topic when omitted) until the client disconnects.
// Each event is written as "event: <topic>" followed by the JSON event as data.
func (h *EventHandler) Stream(c echo.Context) error {
	topics, err := parseTopics(c.QueryParam("topics"))
	if err != nil {
		return err
	}

	var viewer string
	if p := deliverycontext.GetPrincipal(c); p != nil {
		viewer = p.Subject
	}

	ctx := c.Request().Context()
	sub := h.eventBus.Subscribe(topics...)
	defer sub.Close()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if !event.VisibleTo(viewer) {
				continue
			}
			if err := writeEvent(w, event); err != nil {
				deliverycontext.GetLoggerOrDefault(ctx, h.logger).Debug("Event stream closed", slog.Any("error", err))

				return nil
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}

func writeEvent(w *echo.Response, event service.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Topic, data); err != nil {
		return err
	}
	w.Flush()

	return nil
}

func parseTopics(raw string) ([]service.Topic, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var topics []service.Topic
	for name := range strings.SplitSeq(raw, ",") {
		topic, ok := service.ParseTopic(strings.TrimSpace(name))
		if !ok {
			return nil, domainerrors.ErrValidationFailed.WithDetails("unknown topic " + name)
		}
		topics = append(topics, topic)
	}

	return topics, nil
}
