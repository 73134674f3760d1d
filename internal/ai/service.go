package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	pkgerrors "github.com/smartinv/inventory-backend/pkg/errors"
	"github.com/smartinv/inventory-backend/pkg/logger"
)

// Service turns an inventory summary into operator-facing prose.
type Service interface {
	Insights(ctx context.Context, summary []map[string]any) (string, error)
}

type service struct {
	generator Generator
	logg      *logger.Logger
}

// NewService builds the insights service. A nil generator means the feature
// is not configured; calls then fail with a dependency error instead of
// breaking startup.
func NewService(generator Generator, logg *logger.Logger) (Service, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{generator: generator, logg: logg}, nil
}

func (s *service) Insights(ctx context.Context, summary []map[string]any) (string, error) {
	if s.generator == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "ai insights are not configured")
	}
	if len(summary) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "inventory summary is required")
	}

	prompt, err := buildPrompt(summary)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "encode inventory summary")
	}

	text, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		// Upstream detail goes to the log, never to the client.
		s.logg.Error(ctx, "insights generation failed", err)
		return "", pkgerrors.New(pkgerrors.CodeInternal, "insights generation failed")
	}
	return strings.TrimSpace(text), nil
}

func buildPrompt(summary []map[string]any) (string, error) {
	payload, err := json.Marshal(summary)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("You are an inventory analyst. Given the following inventory summary, ")
	b.WriteString("describe notable trends, call out products at or below their minimum stock, ")
	b.WriteString("and suggest concrete restocking actions. Answer in short plain-text paragraphs.\n\n")
	b.WriteString("Inventory summary (JSON):\n")
	b.Write(payload)
	return b.String(), nil
}
