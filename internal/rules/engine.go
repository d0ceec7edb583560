package rules

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ppiankov/emailqa/internal/model"
)

// Engine validates parsed emails against rule schemas
type Engine struct {
	store  *Store
	logger zerolog.Logger
}

// NewEngine creates an engine. The store is only needed by ValidateClient.
func NewEngine(store *Store, logger zerolog.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger.With().Str("component", "rules").Logger(),
	}
}

// Validate runs every check whose section is present in the schema. A
// check's findings are issues or warnings according to the rule's declared
// severity; the email passes when there are no issues.
func (e *Engine) Validate(c *model.EmailComponents, schema *model.RuleSchema, segment, campaign string) model.ValidationResult {
	result := model.ValidationResult{
		Client:   schema.ClientName,
		Segment:  segment,
		Campaign: campaign,
		Issues:   []string{},
		Warnings: []string{},
	}

	if schema.Segmentation != nil && segment != "" {
		check := checkSegmentation(c, schema.Segmentation, segment)
		result.Validations.Segmentation = check
		collect(&result, check.Findings)
	}

	if schema.Modules != nil {
		check := checkModules(c, schema.Modules, segment, campaign)
		result.Validations.Modules = check
		collect(&result, check.Findings)
	}

	if schema.Brand != nil {
		check := checkBrand(c, schema.Brand)
		result.Validations.Brand = check
		collect(&result, check.Findings)
	}

	if schema.DosAndDonts != nil {
		check := checkCopywriting(c, schema.DosAndDonts)
		result.Validations.Copywriting = check
		collect(&result, check.Findings)
	}

	if schema.Compliance != nil {
		check := checkCompliance(c, schema.Compliance)
		result.Validations.Compliance = check
		collect(&result, check.Findings)
	}

	result.Passed = len(result.Issues) == 0

	e.logger.Info().
		Str("client", schema.ClientName).
		Str("segment", segment).
		Int("issues", len(result.Issues)).
		Int("warnings", len(result.Warnings)).
		Msg("validation complete")

	return result
}

// ValidateClient loads the client's rules and validates. A client without
// rules yields a failed result with a single explanatory issue; a malformed
// rules file is returned as an error.
func (e *Engine) ValidateClient(c *model.EmailComponents, client, segment, campaign string) (model.ValidationResult, error) {
	if e.store == nil {
		return model.ValidationResult{}, errors.New("rules engine has no store")
	}

	schema, err := e.store.Load(client)
	if errors.Is(err, ErrNoRules) {
		e.logger.Warn().Str("client", client).Msg("no rules configured")
		return NoRulesResult(client, segment, campaign), nil
	}
	if err != nil {
		return model.ValidationResult{}, fmt.Errorf("load rules for %s: %w", client, err)
	}

	return e.Validate(c, schema, segment, campaign), nil
}

// NoRulesResult is the verdict for a client that has no rules file
func NoRulesResult(client, segment, campaign string) model.ValidationResult {
	return model.ValidationResult{
		Client:   client,
		Segment:  segment,
		Campaign: campaign,
		Passed:   false,
		Issues:   []string{fmt.Sprintf("No rules configured for client '%s'", client)},
		Warnings: []string{},
		Error:    fmt.Sprintf("No rules file found for client '%s'", client),
	}
}

// RequiredCTAs returns the segment's CTA list, else the "all" list, else nil
func RequiredCTAs(schema *model.RuleSchema, segment string) []string {
	if schema == nil || schema.CTAs == nil {
		return nil
	}
	if segment != "" {
		if ctas, ok := schema.CTAs[segment]; ok {
			return ctas
		}
	}
	return schema.CTAs[model.ScopeAll]
}

// UTMRequirements returns the schema's UTM section or an empty one
func UTMRequirements(schema *model.RuleSchema) model.UTMRequirements {
	if schema == nil || schema.UTMRequirements == nil {
		return model.UTMRequirements{}
	}
	return *schema.UTMRequirements
}

func collect(result *model.ValidationResult, f model.Findings) {
	result.Issues = append(result.Issues, f.Issues...)
	result.Warnings = append(result.Warnings, f.Warnings...)
}
