package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"codelearn/internal/llm"
	"codelearn/internal/observability"
	"codelearn/internal/validation"
	"codelearn/models"

	"go.opentelemetry.io/otel/attribute"
)

const (
	maxCodeLength   = 20000
	defaultLanguage = "English"
	defaultTone     = "Friendly"
	defaultSkill    = "Beginner"
)

// GenerationService runs the metered AI tools. Each call checks the free-tier
// gate before contacting the generator and is charged only when generation succeeds.
type GenerationService struct {
	usage     *UsageService
	generator llm.Generator
}

type ExplainInput struct {
	Code                string
	ProgrammingLanguage string
	ExplanationLanguage string
	ExplanationTone     string
}

type ReviewInput struct {
	Code                string
	ProgrammingLanguage string
}

type ProjectIdeaInput struct {
	SkillLevel          string
	ProgrammingLanguage string
	InterestArea        string
	AdditionalInterests string
}

func NewGenerationService(usage *UsageService, generator llm.Generator) *GenerationService {
	return &GenerationService{usage: usage, generator: generator}
}

func validateCode(code, language string) error {
	var errs validation.FieldErrors
	errs.Check(validation.ValidateRequired("code", code))
	errs.Check(validation.ValidateRequired("programmingLanguage", language))
	if len(code) > maxCodeLength {
		errs.Check(fmt.Errorf("code must not exceed %d characters", maxCodeLength))
	}
	if !errs.Empty() {
		return models.NewValidationError(errs.Error())
	}
	return nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

// Explain produces a line-by-line explanation of a code snippet.
func (s *GenerationService) Explain(ctx context.Context, p models.Principal, in ExplainInput) (string, error) {
	if err := validateCode(in.Code, in.ProgrammingLanguage); err != nil {
		return "", err
	}
	lang := orDefault(in.ExplanationLanguage, defaultLanguage)
	if p.IsAnonymous() && !strings.EqualFold(lang, defaultLanguage) {
		return "", models.NewForbiddenError("Multiple languages only available for registered users")
	}

	prompt := fmt.Sprintf(
		"As a %s programming teacher, explain this %s code in %s. Focus on clear, direct explanations for each line. Here's the code:\n\n%s",
		strings.ToLower(orDefault(in.ExplanationTone, defaultTone)), in.ProgrammingLanguage, lang, in.Code,
	)
	return s.run(ctx, p, models.FeatureExplanation, prompt)
}

// Review checks a snippet for errors and suggests fixes.
func (s *GenerationService) Review(ctx context.Context, p models.Principal, in ReviewInput) (string, error) {
	if err := validateCode(in.Code, in.ProgrammingLanguage); err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(
		"Act as a %s code interpreter and error checker. Here's the code:\n\n%s\n\nIf there are any errors, explain them in simple terms and suggest fixes. If the code is correct, show the expected output.",
		in.ProgrammingLanguage, in.Code,
	)
	return s.run(ctx, p, models.FeatureFeedback, prompt)
}

// SuggestProject generates a project idea matched to a learner's profile.
func (s *GenerationService) SuggestProject(ctx context.Context, p models.Principal, in ProjectIdeaInput) (string, error) {
	var errs validation.FieldErrors
	errs.Check(validation.ValidateRequired("programmingLanguage", in.ProgrammingLanguage))
	errs.Check(validation.ValidateRequired("interestArea", in.InterestArea))
	if !errs.Empty() {
		return "", models.NewValidationError(errs.Error())
	}

	prompt := fmt.Sprintf(
		"Generate a unique and practical project idea for a %s programmer who knows %s and is interested in %s. Additional interests: %s. Include: 1) Project title 2) Description 3) Key features 4) Learning outcomes 5) Estimated time to complete 6) Required technologies 7) Step-by-step approach",
		strings.ToLower(orDefault(in.SkillLevel, defaultSkill)), in.ProgrammingLanguage, in.InterestArea, orDefault(in.AdditionalInterests, "None"),
	)
	return s.run(ctx, p, models.FeatureProject, prompt)
}

func (s *GenerationService) run(ctx context.Context, p models.Principal, feature models.FeatureKind, prompt string) (text string, err error) {
	ctx, span := observability.StartSpan(ctx, "generation", string(feature),
		attribute.String("principal", observability.PrincipalLabel(p.IsAnonymous())),
	)
	defer func() { observability.EndSpan(span, err) }()

	if err := s.usage.EnsureAllowed(ctx, p, feature); err != nil {
		return "", err
	}

	text, err = s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", models.NewUpstreamError(err)
	}

	// Tracking failures are logged, not surfaced.
	if err := s.usage.Track(ctx, p, feature); err != nil {
		slog.ErrorContext(ctx, "failed to record feature usage",
			slog.String("feature", string(feature)),
			slog.String("principal", p.String()),
			slog.String("error", err.Error()),
		)
	}
	return text, nil
}
