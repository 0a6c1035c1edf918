// Package lambda runs a function under the AWS Lambda runtime.
package lambda

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/n0madic/go-bookrec/internal/codec"
)

// Function handles one invocation document.
type Function interface {
	Handle(ctx context.Context, invocation []byte) *codec.Response
}

// HandlerFunc is the signature registered with the Lambda runtime.
type HandlerFunc func(ctx context.Context, event json.RawMessage) (events.APIGatewayProxyResponse, error)

// Handler adapts fn to the Lambda runtime. The raw event is passed through
// untouched so any invocation shape reaches the normalizer. It never returns
// an error; failures are reported as proxy responses.
func Handler(name string, fn Function) HandlerFunc {
	return func(ctx context.Context, event json.RawMessage) (events.APIGatewayProxyResponse, error) {
		if lc, ok := lambdacontext.FromContext(ctx); ok {
			slog.Debug("lambda.invoke", "function", name, "aws_request_id", lc.AwsRequestID, "bytes", len(event))
		}
		return fn.Handle(ctx, event).Proxy(), nil
	}
}

// Start hands fn to the Lambda runtime. It does not return.
func Start(name string, fn Function) {
	slog.Info("lambda.start", "function", name)
	awslambda.Start(Handler(name, fn))
}
