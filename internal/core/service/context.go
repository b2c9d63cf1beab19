package service

import "context"

type requestIDKey struct{}

// ContextWithRequestID tags ctx with the id of the HTTP request being served
// so log lines and audit events can be correlated.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
