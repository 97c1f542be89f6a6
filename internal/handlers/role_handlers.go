package handlers

import (
	"net/http"

	"merch_store_backend/internal/models"
	"merch_store_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// RoleHandler serves roles, permissions and role permission grants.
type RoleHandler struct {
	roleService services.RoleService
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(rs services.RoleService) *RoleHandler {
	return &RoleHandler{roleService: rs}
}

// --- Roles ---

func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req services.NameRequest
	if !bindJSON(c, "CreateRole", &req) {
		return
	}
	role, err := h.roleService.CreateRole(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, "CreateRole", err)
		return
	}
	c.JSON(http.StatusCreated, role)
}

func (h *RoleHandler) GetRoles(c *gin.Context) {
	roles, err := h.roleService.GetRoles(c.Request.Context())
	if err != nil {
		respondServiceError(c, "GetRoles", err)
		return
	}
	if roles == nil {
		roles = []models.Role{}
	}
	c.JSON(http.StatusOK, roles)
}

func (h *RoleHandler) GetRoleByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	role, err := h.roleService.GetRoleByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "GetRoleByID", err)
		return
	}
	c.JSON(http.StatusOK, role)
}

func (h *RoleHandler) UpdateRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.NameRequest
	if !bindJSON(c, "UpdateRole", &req) {
		return
	}
	role, err := h.roleService.UpdateRole(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, "UpdateRole", err)
		return
	}
	c.JSON(http.StatusOK, role)
}

func (h *RoleHandler) DeleteRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.roleService.DeleteRole(c.Request.Context(), id); err != nil {
		respondServiceError(c, "DeleteRole", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Permissions ---

func (h *RoleHandler) CreatePermission(c *gin.Context) {
	var req services.CreatePermissionRequest
	if !bindJSON(c, "CreatePermission", &req) {
		return
	}
	p, err := h.roleService.CreatePermission(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, "CreatePermission", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *RoleHandler) GetPermissions(c *gin.Context) {
	permissions, err := h.roleService.GetPermissions(c.Request.Context())
	if err != nil {
		respondServiceError(c, "GetPermissions", err)
		return
	}
	if permissions == nil {
		permissions = []models.Permission{}
	}
	c.JSON(http.StatusOK, permissions)
}

func (h *RoleHandler) GetPermissionByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	p, err := h.roleService.GetPermissionByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "GetPermissionByID", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *RoleHandler) UpdatePermission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdatePermissionRequest
	if !bindJSON(c, "UpdatePermission", &req) {
		return
	}
	p, err := h.roleService.UpdatePermission(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, "UpdatePermission", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *RoleHandler) DeletePermission(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.roleService.DeletePermission(c.Request.Context(), id); err != nil {
		respondServiceError(c, "DeletePermission", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Role permissions ---

func (h *RoleHandler) GetRolePermissions(c *gin.Context) {
	grants, err := h.roleService.GetRolePermissions(c.Request.Context())
	if err != nil {
		respondServiceError(c, "GetRolePermissions", err)
		return
	}
	if grants == nil {
		grants = []models.RolePermission{}
	}
	c.JSON(http.StatusOK, grants)
}

func (h *RoleHandler) AddPermissionToRole(c *gin.Context) {
	var req services.RolePermissionRequest
	if !bindJSON(c, "AddPermissionToRole", &req) {
		return
	}
	rp, err := h.roleService.AddPermissionToRole(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, "AddPermissionToRole", err)
		return
	}
	c.JSON(http.StatusCreated, rp)
}

func (h *RoleHandler) RemovePermissionFromRole(c *gin.Context) {
	roleID, ok := parseIDParam(c, "roleId")
	if !ok {
		return
	}
	permissionID, ok := parseIDParam(c, "permissionId")
	if !ok {
		return
	}
	if err := h.roleService.RemovePermissionFromRole(c.Request.Context(), roleID, permissionID); err != nil {
		respondServiceError(c, "RemovePermissionFromRole", err)
		return
	}
	c.Status(http.StatusNoContent)
}
