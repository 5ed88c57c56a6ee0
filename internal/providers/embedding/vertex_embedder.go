package embedding

import (
	"context"
	"errors"
	"fmt"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const defaultModel = "gemini-embedding-001"

// VertexEmbedder calls the Vertex AI text embedding endpoint.
type VertexEmbedder struct {
	client   *aiplatform.PredictionClient
	endpoint string
	taskType string
}

func NewVertexEmbedder(ctx context.Context, projectID, location, modelName string) (*VertexEmbedder, error) {
	if location == "" {
		location = "us-central1"
	}
	if modelName == "" {
		modelName = defaultModel
	}

	c, err := aiplatform.NewPredictionClient(ctx,
		option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", location)))
	if err != nil {
		return nil, err
	}

	return &VertexEmbedder{
		client:   c,
		endpoint: fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s", projectID, location, modelName),
		taskType: "SEMANTIC_SIMILARITY",
	}, nil
}

func (v *VertexEmbedder) Close() error { return v.client.Close() }

func (v *VertexEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	instance := structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
		"content":   structpb.NewStringValue(text),
		"task_type": structpb.NewStringValue(v.taskType),
	}})

	params, err := structpb.NewStruct(map[string]any{
		"outputDimensionality": Dimensions,
	})
	if err != nil {
		return nil, err
	}

	resp, err := v.client.Predict(ctx, &aiplatformpb.PredictRequest{
		Endpoint:   v.endpoint,
		Instances:  []*structpb.Value{instance},
		Parameters: structpb.NewStructValue(params),
	})
	if err != nil {
		if status.Code(err) == codes.ResourceExhausted {
			return nil, fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return nil, err
	}

	return parsePrediction(resp.GetPredictions())
}

func parsePrediction(preds []*structpb.Value) ([]float32, error) {
	if len(preds) == 0 {
		return nil, errors.New("embedding: empty prediction")
	}

	values := preds[0].GetStructValue().GetFields()["embeddings"].
		GetStructValue().GetFields()["values"].
		GetListValue().GetValues()
	if len(values) == 0 {
		return nil, errors.New("embedding: prediction has no values")
	}

	out := make([]float32, len(values))
	for i, val := range values {
		out[i] = float32(val.GetNumberValue())
	}
	return out, nil
}
