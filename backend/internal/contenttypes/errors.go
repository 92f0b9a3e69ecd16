package contenttypes

import (
	"fmt"

	"orkg-backend/backend/internal/ids"
	apperrors "orkg-backend/backend/pkg/errors"
)

func invalid(format string, args ...any) *apperrors.BaseError {
	return apperrors.NewBaseError(apperrors.ErrorTypeValidation, fmt.Sprintf(format, args...), nil)
}

func NewTemplateNotFound(id ids.ThingID) *apperrors.ErrNotFound {
	return apperrors.NewNotFound("Template", id.String())
}

func NewAuthorNotFound(id ids.ThingID) *apperrors.ErrNotFound {
	return apperrors.NewNotFound("Author", id.String())
}

func NewContributionNotFound(id ids.ThingID) *apperrors.ErrNotFound {
	return apperrors.NewNotFound("Contribution", id.String())
}

// ErrTemplateClosed is returned when a property is added to a closed template
type ErrTemplateClosed struct {
	*apperrors.BaseError
	TemplateID ids.ThingID
}

func NewTemplateClosed(id ids.ThingID) *ErrTemplateClosed {
	return &ErrTemplateClosed{
		BaseError:  apperrors.NewConflict(fmt.Sprintf("Template %q is closed.", id)),
		TemplateID: id,
	}
}

// ErrTemplateAlreadyExistsForClass is returned when the target class already has a template
type ErrTemplateAlreadyExistsForClass struct {
	*apperrors.BaseError
	ClassID    ids.ThingID
	TemplateID ids.ThingID
}

func NewTemplateAlreadyExistsForClass(classID, templateID ids.ThingID) *ErrTemplateAlreadyExistsForClass {
	return &ErrTemplateAlreadyExistsForClass{
		BaseError:  apperrors.NewConflict(fmt.Sprintf("Class %q already has template %q.", classID, templateID)),
		ClassID:    classID,
		TemplateID: templateID,
	}
}

func NewInvalidMinCount(count int) *apperrors.BaseError {
	return invalid("Invalid min count %q. Must be at least 0.", fmt.Sprint(count))
}

func NewInvalidMaxCount(count int) *apperrors.BaseError {
	return invalid("Invalid max count %q. Must be at least 0.", fmt.Sprint(count))
}

func NewInvalidCardinality(minCount, maxCount int) *apperrors.BaseError {
	return invalid("Invalid cardinality. Min count must be less than max count. Found: min: %q, max: %q.",
		fmt.Sprint(minCount), fmt.Sprint(maxCount))
}

func NewInvalidBounds(minValue, maxValue string) *apperrors.BaseError {
	return invalid("Invalid bounds. Min bound must be less than or equal to max bound. Found: min: %q, max: %q.",
		minValue, maxValue)
}

func NewInvalidRegexPattern(pattern string, cause error) *apperrors.BaseError {
	return apperrors.NewBaseError(apperrors.ErrorTypeValidation, fmt.Sprintf("Invalid regex pattern %q.", pattern), cause)
}

func NewInvalidMonth(month int) *apperrors.BaseError {
	return invalid("Invalid month %q. Must be in range [1..12].", fmt.Sprint(month))
}

func NewInvalidDescription() *apperrors.BaseError {
	return invalid("A description must not be blank and must be at most %d characters long.", maxDescriptionLength)
}

func NewOnlyOneResearchFieldAllowed() *apperrors.BaseError {
	return invalid("Only one research field is allowed.")
}

func NewRequiresAtLeastTwoContributions() *apperrors.BaseError {
	return invalid("At least two contributions are required.")
}

// NewEmptyContribution reports the contribution at index; a negative index means
// the command carries no contribution at all.
func NewEmptyContribution(index int) *apperrors.BaseError {
	if index < 0 {
		return invalid("Contribution does not contain any statements.")
	}
	return invalid("Contribution at index %q does not contain any statements.", fmt.Sprint(index))
}

// ErrPaperAlreadyExists is returned when a paper identifier is already registered
type ErrPaperAlreadyExists struct {
	*apperrors.BaseError
	Identifier string
}

func NewPaperAlreadyExists(identifier string) *ErrPaperAlreadyExists {
	return &ErrPaperAlreadyExists{
		BaseError:  apperrors.NewConflict(fmt.Sprintf("Paper with identifier %q already exists.", identifier)),
		Identifier: identifier,
	}
}

func NewTemplateNotModifiable(id ids.ThingID) *apperrors.BaseError {
	return apperrors.NewForbidden(fmt.Sprintf("Template %q is not modifiable.", id))
}

func NewTemplatePropertyNotModifiable(id ids.ThingID) *apperrors.BaseError {
	return apperrors.NewForbidden(fmt.Sprintf("Template property %q is not modifiable.", id))
}

func NewTemplatePropertyNotFound(id ids.ThingID) *apperrors.ErrNotFound {
	return apperrors.NewNotFound("Template property", id.String())
}

func NewUnrelatedTemplateProperty(templateID, propertyID ids.ThingID) *apperrors.BaseError {
	return invalid("Template property %q does not belong to template %q.", propertyID, templateID)
}
