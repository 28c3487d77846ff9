package requestdata

import (
	"context"

	"github.com/google/uuid"
)

type contextKey struct{}

var requestDataKey = contextKey{}

type RequestData struct {
	TokenString string
	UserID      uuid.UUID
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) (*RequestData, bool) {
	rd, ok := ctx.Value(requestDataKey).(*RequestData)
	if !ok || rd == nil {
		return nil, false
	}
	return rd, true
}
