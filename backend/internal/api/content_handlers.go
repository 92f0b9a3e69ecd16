package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orkg-backend/backend/internal/community"
	"orkg-backend/backend/internal/contenttypes"
	"orkg-backend/backend/internal/ids"
)

// created answers a successful POST with the new id
func (h *handler) created(c *gin.Context, id any, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *handler) noContent(c *gin.Context, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ============================================================================
// Content types
// ============================================================================

func (h *handler) createTemplate(c *gin.Context) {
	var cmd contenttypes.CreateTemplateCommand
	if err := bindJSON(c, &cmd); err != nil {
		h.fail(c, err)
		return
	}
	var err error
	if cmd.Contributor, err = contributor(c); err != nil {
		h.fail(c, err)
		return
	}
	id, err := h.Templates.Create(c.Request.Context(), cmd)
	h.created(c, id, err)
}

func (h *handler) getTemplate(c *gin.Context) {
	id, err := thingParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	t, err := h.Templates.FindByID(c.Request.Context(), id)
	h.write(c, t, err)
}

func (h *handler) createTemplateProperty(c *gin.Context) {
	templateID, err := thingParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	cmd := contenttypes.CreateTemplatePropertyCommand{TemplateID: templateID}
	if err := bindJSON(c, &cmd.PropertyDefinition); err != nil {
		h.fail(c, err)
		return
	}
	if cmd.Contributor, err = contributor(c); err != nil {
		h.fail(c, err)
		return
	}
	id, err := h.Templates.CreateProperty(c.Request.Context(), cmd)
	h.created(c, id, err)
}

func (h *handler) updateTemplate(c *gin.Context) {
	id, err := thingParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	cmd := contenttypes.UpdateTemplateCommand{TemplateID: id}
	if err := bindJSON(c, &cmd); err != nil {
		h.fail(c, err)
		return
	}
	if cmd.Contributor, err = contributor(c); err != nil {
		h.fail(c, err)
		return
	}
	h.noContent(c, h.Templates.Update(c.Request.Context(), cmd))
}

func (h *handler) updateTemplateProperty(c *gin.Context) {
	templateID, err := thingParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	propertyID, err := thingParam(c, "propertyId")
	if err != nil {
		h.fail(c, err)
		return
	}
	cmd := contenttypes.UpdateTemplatePropertyCommand{TemplateID: templateID, PropertyID: propertyID}
	if err := bindJSON(c, &cmd.PropertyDefinition); err != nil {
		h.fail(c, err)
		return
	}
	if cmd.Contributor, err = contributor(c); err != nil {
		h.fail(c, err)
		return
	}
	h.noContent(c, h.Templates.UpdateProperty(c.Request.Context(), cmd))
}

func (h *handler) createPaper(c *gin.Context) {
	var cmd contenttypes.CreatePaperCommand
	if err := bindJSON(c, &cmd); err != nil {
		h.fail(c, err)
		return
	}
	var err error
	if cmd.Contributor, err = contributor(c); err != nil {
		h.fail(c, err)
		return
	}
	id, err := h.Papers.Create(c.Request.Context(), cmd)
	h.created(c, id, err)
}

func (h *handler) createComparison(c *gin.Context) {
	var cmd contenttypes.CreateComparisonCommand
	if err := bindJSON(c, &cmd); err != nil {
		h.fail(c, err)
		return
	}
	var err error
	if cmd.Contributor, err = contributor(c); err != nil {
		h.fail(c, err)
		return
	}
	id, err := h.Comparisons.Create(c.Request.Context(), cmd)
	h.created(c, id, err)
}

// ============================================================================
// Community
// ============================================================================

type observatoryRequest struct {
	ID            ids.ObservatoryID    `json:"id"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	DisplayID     string               `json:"display_id"`
	ResearchField ids.ThingID          `json:"research_field"`
	Organizations []ids.OrganizationID `json:"organization_ids"`
}

type organizationRequest struct {
	ID        ids.OrganizationID `json:"id"`
	Name      string             `json:"name"`
	DisplayID string             `json:"display_id"`
	URL       string             `json:"url"`
	Type      string             `json:"type"`
}

type contributorRequest struct {
	ID    ids.ContributorID `json:"id"`
	Name  string            `json:"display_name"`
	Email string            `json:"email"`
}

type contributorResponse struct {
	community.Contributor
	GravatarID string `json:"gravatar_id"`
	AvatarURL  string `json:"avatar_url"`
}

type memberRequest struct {
	ContributorID ids.ContributorID `json:"contributor_id"`
}

func (h *handler) createObservatory(c *gin.Context) {
	var req observatoryRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	id, err := h.Observatories.Create(c.Request.Context(), community.CreateObservatoryCommand{
		ID:            req.ID,
		Name:          req.Name,
		Description:   req.Description,
		DisplayID:     req.DisplayID,
		ResearchField: req.ResearchField,
		Organizations: req.Organizations,
	})
	h.created(c, id, err)
}

func (h *handler) getObservatory(c *gin.Context) {
	id, err := ids.ParseObservatoryID(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	o, err := h.Observatories.FindByID(c.Request.Context(), id)
	h.write(c, o, err)
}

func (h *handler) addObservatoryMember(c *gin.Context) {
	id, err := ids.ParseObservatoryID(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	var req memberRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	h.noContent(c, h.Observatories.AddMember(c.Request.Context(), id, req.ContributorID))
}

func (h *handler) createOrganization(c *gin.Context) {
	var req organizationRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	creator, err := contributor(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	id, err := h.Organizations.Create(c.Request.Context(), community.CreateOrganizationCommand{
		ID:          req.ID,
		Name:        req.Name,
		DisplayID:   req.DisplayID,
		URL:         req.URL,
		Type:        community.ParseOrganizationType(req.Type),
		Contributor: creator,
	})
	h.created(c, id, err)
}

func (h *handler) getOrganization(c *gin.Context) {
	id, err := ids.ParseOrganizationID(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	o, err := h.Organizations.FindByID(c.Request.Context(), id)
	h.write(c, o, err)
}

func (h *handler) createContributor(c *gin.Context) {
	var req contributorRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	id, err := h.Contributors.Create(c.Request.Context(), community.CreateContributorCommand{
		ID:    req.ID,
		Name:  req.Name,
		Email: req.Email,
	})
	h.created(c, id, err)
}

func (h *handler) getContributor(c *gin.Context) {
	id, err := ids.ParseContributorID(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	found, err := h.Contributors.FindByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contributorResponse{
		Contributor: found,
		GravatarID:  found.GravatarID().String(),
		AvatarURL:   found.AvatarURL(),
	})
}
