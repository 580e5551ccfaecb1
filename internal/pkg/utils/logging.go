package utils

import (
	"clinic-appointment-service/internal/app/models"
	"clinic-appointment-service/internal/pkg/constvars"
	"context"
)

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string); ok {
		return requestID
	}
	return ""
}

func ContextWithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, constvars.CONTEXT_ACTOR_KEY, actor)
}

func GetActor(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(constvars.CONTEXT_ACTOR_KEY).(models.Actor)
	return actor, ok
}
