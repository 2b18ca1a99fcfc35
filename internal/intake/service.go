package intake

import (
	"context"
	"fmt"

	"github.com/claude/trainplan/internal/catalog"
	"github.com/claude/trainplan/internal/models"
	"github.com/claude/trainplan/internal/program"
)

// AlternativesQuery narrows alternative lookups to what a user can do.
// Empty fields do not filter.
type AlternativesQuery struct {
	Experience  string   `json:"experience,omitempty"`
	Equipment   []string `json:"equipment,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
	Specific    []string `json:"specific_equipment,omitempty"`
}

// Alternatives is an exercise with the movements that can replace it.
type Alternatives struct {
	Exercise          catalog.Exercise   `json:"exercise"`
	Contraindications []string           `json:"contraindications"`
	Alternatives      []catalog.Exercise `json:"alternatives"`
}

// CatalogSummary describes what the catalog offers.
type CatalogSummary struct {
	Muscles             []string `json:"muscles"`
	EquipmentCategories []string `json:"equipment_categories"`
	InjuryTypes         []string `json:"injury_types"`
	CanonicalMovements  int      `json:"canonical_movements"`
}

// Service joins the provider with catalog and template lookups. It is the
// single backend of the REST API and of the local MCP server.
type Service struct {
	*Provider
	catalog   catalog.Store
	templates program.TemplateLibrary
	rules     program.ComplexityRules
}

// NewService wires a provider to the catalog it generates from.
func NewService(p *Provider, c catalog.Store) *Service {
	return &Service{
		Provider:  p,
		catalog:   c,
		templates: program.StaticTemplates{},
		rules:     program.DefaultComplexityRules,
	}
}

// Exercise returns one catalog exercise. catalog.ErrNotFound is passed through.
func (s *Service) Exercise(ctx context.Context, id string) (*catalog.Exercise, error) {
	return s.catalog.FetchByID(ctx, id)
}

// Contraindications lists the injury types the exercise's movement may aggravate.
func (s *Service) Contraindications(ctx context.Context, id string) ([]string, error) {
	ex, err := s.catalog.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.catalog.FetchContraindications(ctx, ex.CanonicalName)
}

// Alternatives returns programme exercises sharing id's canonical movement
// that fit q.
func (s *Service) Alternatives(ctx context.Context, id string, q AlternativesQuery) (*Alternatives, error) {
	ex, err := s.catalog.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}

	f := catalog.Filter{
		Attachments:   models.AttachmentNames(q.Attachments),
		Specific:      q.Specific,
		MaxComplexity: catalog.TopTier,
		ProgrammeOnly: true,
	}
	if len(q.Equipment) > 0 {
		f.Categories = models.EquipmentCategories(q.Equipment)
	}
	if q.Experience != "" {
		rule := s.rules.For(models.ParseExperience(q.Experience))
		f.MaxComplexity = rule.MaxComplexity
		f.ExcludeTopTier = rule.MaxTopTierPerSession == 0
	}

	alts, err := catalog.Alternatives(ctx, s.catalog, *ex, f)
	if err != nil {
		return nil, fmt.Errorf("fetching alternatives for %s: %w", id, err)
	}
	contra, err := s.catalog.FetchContraindications(ctx, ex.CanonicalName)
	if err != nil {
		return nil, fmt.Errorf("fetching contraindications for %s: %w", id, err)
	}
	if alts == nil {
		alts = []catalog.Exercise{}
	}
	if contra == nil {
		contra = []string{}
	}
	return &Alternatives{Exercise: *ex, Contraindications: contra, Alternatives: alts}, nil
}

// Muscles lists the primary muscles present in the catalog.
func (s *Service) Muscles(ctx context.Context) ([]string, error) {
	return s.catalog.Muscles(ctx)
}

// EquipmentCategories lists the catalog's equipment categories.
func (s *Service) EquipmentCategories(ctx context.Context) ([]string, error) {
	return s.catalog.EquipmentCategories(ctx)
}

// InjuryTypes lists every injury type with at least one contraindication.
func (s *Service) InjuryTypes(ctx context.Context) ([]string, error) {
	return s.catalog.InjuryTypes(ctx)
}

// Template resolves the plan the engine would use for days and duration.
func (s *Service) Template(_ context.Context, days int, duration string) (*program.Plan, error) {
	p := program.Describe(s.templates, days, duration)
	return &p, nil
}

// ComplexityRules returns the experience-level rule table keyed by level name.
func (s *Service) ComplexityRules(context.Context) (map[string]program.ComplexityRule, error) {
	out := make(map[string]program.ComplexityRule, len(s.rules))
	for level, rule := range s.rules {
		out[level.String()] = rule
	}
	return out, nil
}

// CatalogSummary collects the catalog's vocabularies.
func (s *Service) CatalogSummary(ctx context.Context) (*CatalogSummary, error) {
	var (
		sum CatalogSummary
		err error
	)
	if sum.Muscles, err = s.catalog.Muscles(ctx); err != nil {
		return nil, fmt.Errorf("listing muscles: %w", err)
	}
	if sum.EquipmentCategories, err = s.catalog.EquipmentCategories(ctx); err != nil {
		return nil, fmt.Errorf("listing equipment categories: %w", err)
	}
	if sum.InjuryTypes, err = s.catalog.InjuryTypes(ctx); err != nil {
		return nil, fmt.Errorf("listing injury types: %w", err)
	}
	names, err := s.catalog.CanonicalNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing canonical names: %w", err)
	}
	sum.CanonicalMovements = len(names)
	return &sum, nil
}
