package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"

	"github.com/n0madic/go-bookrec/internal/codec"
	"github.com/n0madic/go-bookrec/internal/types"
)

const providerBedrock = "bedrock"

// bedrockAPI is the subset of the Bedrock runtime client we call.
type bedrockAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockClient invokes Anthropic models hosted on Amazon Bedrock.
type BedrockClient struct {
	api              bedrockAPI
	modelID          string
	anthropicVersion string
}

// NewBedrockClient loads the default AWS credential chain for region.
func NewBedrockClient(ctx context.Context, region, modelID, anthropicVersion string) (*BedrockClient, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newBedrockClient(bedrockruntime.NewFromConfig(awsCfg), modelID, anthropicVersion), nil
}

func newBedrockClient(api bedrockAPI, modelID, anthropicVersion string) *BedrockClient {
	return &BedrockClient{api: api, modelID: modelID, anthropicVersion: anthropicVersion}
}

func (b *BedrockClient) Name() string  { return providerBedrock }
func (b *BedrockClient) Model() string { return b.modelID }

// Invoke sends an Anthropic messages payload and returns the response body verbatim.
func (b *BedrockClient) Invoke(ctx context.Context, req *Request) (*Response, error) {
	payload, err := json.Marshal(types.NewUserMessagesRequest(b.anthropicVersion, req.Prompt, req.MaxTokens))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	out, err := b.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        payload,
	})
	if err != nil {
		return nil, bedrockError(err)
	}

	requestID, _ := awsmiddleware.GetRequestIDMetadata(out.ResultMetadata)
	return &Response{
		Body:      out.Body,
		Model:     b.modelID,
		RequestID: requestID,
	}, nil
}

func bedrockError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	ue := &Error{Provider: providerBedrock, Err: err}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		ue.StatusCode = respErr.HTTPStatusCode()
		ue.RequestID = respErr.ServiceRequestID()
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		body, _ := json.Marshal(map[string]string{"message": apiErr.ErrorCode() + ": " + apiErr.ErrorMessage()})
		if ue.StatusCode > 0 {
			ue.Message = codec.FormatUpstreamErrorWithRequestID(ue.StatusCode, body, ue.RequestID)
		} else {
			ue.Message = apiErr.ErrorCode() + ": " + apiErr.ErrorMessage()
		}
		ue.Err = nil
		return ue
	}

	ue.Message = "Bedrock InvokeModel failed"
	return ue
}
