package backendtest

import "context"

type recordedKey struct{}

func withRecorded(ctx context.Context, rec Recorded) context.Context {
	return context.WithValue(ctx, recordedKey{}, rec)
}

func recordedFrom(ctx context.Context) Recorded {
	rec, _ := ctx.Value(recordedKey{}).(Recorded)
	return rec
}
