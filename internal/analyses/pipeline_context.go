package analyses

import "context"

type pipelineKey struct{}

type pipelineMeta struct {
	requestID string
	operation string
}

// WithPipeline tags ctx with the request ID and the operation (upload,
// analyze, chat) so every pipeline log line can be correlated.
func WithPipeline(ctx context.Context, requestID, operation string) context.Context {
	if requestID == "" && operation == "" {
		return ctx
	}
	return context.WithValue(ctx, pipelineKey{}, pipelineMeta{requestID: requestID, operation: operation})
}

// logFields merges extra with the user and pipeline tags on ctx.
func logFields(ctx context.Context, userID string, extra map[string]any) map[string]any {
	fields := make(map[string]any, len(extra)+3)
	for k, v := range extra {
		fields[k] = v
	}
	fields["user_id"] = userID
	if meta, ok := ctx.Value(pipelineKey{}).(pipelineMeta); ok {
		if meta.requestID != "" {
			fields["request_id"] = meta.requestID
		}
		if meta.operation != "" {
			fields["operation"] = meta.operation
		}
	}
	return fields
}
