// Package fieldops re-exports the field operations engine for embedding
// callers: add/update/delete over a form's field collection, dependency
// scanning, and page-aware positional insertion.
package fieldops

import internalfieldops "github.com/formbridge/formbridge/internal/fieldops"

// Store is the persistence boundary the engine mutates forms through.
type Store = internalfieldops.Store

// Validator supplies advisory field warnings.
type Validator = internalfieldops.Validator

// Manager orchestrates field mutations against a Store.
type Manager = internalfieldops.Manager

type Option = internalfieldops.Option

var (
	NewManager    = internalfieldops.NewManager
	WithRegistry  = internalfieldops.WithRegistry
	WithValidator = internalfieldops.WithValidator
	NextFieldID   = internalfieldops.NextFieldID
)

// Sentinel errors for structural impossibilities.
var (
	ErrUnknownFieldType = internalfieldops.ErrUnknownFieldType
	ErrFieldNotFound    = internalfieldops.ErrFieldNotFound
)

// Positioning.
type (
	Mode               = internalfieldops.Mode
	PositionSpec       = internalfieldops.PositionSpec
	PositionValidation = internalfieldops.PositionValidation
	PositionSummary    = internalfieldops.PositionSummary
	InsertedPosition   = internalfieldops.InsertedPosition
)

const (
	ModeAppend  = internalfieldops.ModeAppend
	ModePrepend = internalfieldops.ModePrepend
	ModeAfter   = internalfieldops.ModeAfter
	ModeBefore  = internalfieldops.ModeBefore
	ModeIndex   = internalfieldops.ModeIndex
)

var (
	CalculatePosition      = internalfieldops.CalculatePosition
	ValidatePositionConfig = internalfieldops.ValidatePositionConfig
	SummarizePosition      = internalfieldops.SummarizePosition
	PageBoundaries         = internalfieldops.PageBoundaries
	PageCount              = internalfieldops.PageCount
	FieldsForPage          = internalfieldops.FieldsForPage
	FieldPage              = internalfieldops.FieldPage
	GenerateSubInputs      = internalfieldops.GenerateSubInputs
)

// Dependency analysis.
type (
	Dependencies          = internalfieldops.Dependencies
	LogicDependency       = internalfieldops.LogicDependency
	CalculationDependency = internalfieldops.CalculationDependency
	MergeTagDependency    = internalfieldops.MergeTagDependency
	PopulationDependency  = internalfieldops.PopulationDependency
)

var (
	ScanFormDependencies    = internalfieldops.ScanFormDependencies
	ScanConditionalLogic    = internalfieldops.ScanConditionalLogic
	ScanCalculations        = internalfieldops.ScanCalculations
	ScanMergeTags           = internalfieldops.ScanMergeTags
	ScanDynamicPopulation   = internalfieldops.ScanDynamicPopulation
	HasBreakingDependencies = internalfieldops.HasBreakingDependencies
	DependencySummary       = internalfieldops.DependencySummary
)

// Results.
type (
	AddResult      = internalfieldops.AddResult
	UpdateResult   = internalfieldops.UpdateResult
	UpdateWarnings = internalfieldops.UpdateWarnings
	FieldChanges   = internalfieldops.FieldChanges
	DeleteOptions  = internalfieldops.DeleteOptions
	DeleteResult   = internalfieldops.DeleteResult
	DeletedField   = internalfieldops.DeletedField
)
