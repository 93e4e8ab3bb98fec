package app

import (
	"github.com/yungbote/doktrace-backend/internal/clients/gcp"
	"github.com/yungbote/doktrace-backend/internal/clients/openai"
	"github.com/yungbote/doktrace-backend/internal/logger"
)

type Clients struct {
	Bucket gcp.BucketService
	Vision gcp.Vision
	OpenAI openai.Client
}

// wireClients builds the external clients. Photo storage and the OCR
// extractor are required; the Vision transcript client is optional and only
// degrades the audit trail when absent.
func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	bucket, err := gcp.NewBucketService(log)
	if err != nil {
		return Clients{}, err
	}
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		return Clients{}, err
	}
	vision, err := gcp.NewVision(log)
	if err != nil {
		log.Warn("Vision client unavailable, raw transcripts disabled", "error", err)
		vision = nil
	}

	return Clients{
		Bucket: bucket,
		Vision: vision,
		OpenAI: openaiClient,
	}, nil
}
