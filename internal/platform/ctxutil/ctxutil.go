// Package ctxutil carries request-scoped metadata through a context.Context,
// used for log correlation and orchestrator idempotency keys. Tracing-backend
// propagation is out of scope, so only a request id is carried (no trace id).
package ctxutil

import "context"

type requestDataKey struct{}

type RequestData struct {
	RequestID string
	UserID    string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

func RequestID(ctx context.Context) string {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.RequestID
	}
	return ""
}
