package internal

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/schemahub/console"
)

// RoleService manages roles and their resource permissions.
type RoleService struct {
	client *Client
	logger *zap.Logger
}

// NewRoleService creates a role service.
func NewRoleService(client *Client, logger *zap.Logger) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{client: client, logger: logger}
}

// roleWire is the platform's role shape: permissions arrive as full records,
// while the console edits them as a flat list of granted resources.
type roleWire struct {
	console.Role
	Permissions []console.Permission `json:"permissions,omitempty"`
}

func (w *roleWire) toRole() *console.Role {
	role := w.Role
	role.Permissions = make([]string, 0, len(w.Permissions))
	for _, p := range w.Permissions {
		if p.Value == console.PermissionAllow {
			role.Permissions = append(role.Permissions, p.Resource)
		}
	}
	return &role
}

// List returns all roles.
func (s *RoleService) List(ctx context.Context) ([]*console.Role, error) {
	var wires []roleWire
	if err := s.client.Get(ctx, "/role", nil, &wires); err != nil {
		return nil, err
	}
	roles := make([]*console.Role, 0, len(wires))
	for i := range wires {
		roles = append(roles, wires[i].toRole())
	}
	return roles, nil
}

// Get retrieves one role with its granted resources flattened.
func (s *RoleService) Get(ctx context.Context, id uint64) (*console.Role, error) {
	var wire roleWire
	if err := s.client.Get(ctx, "/role/"+strconv.FormatUint(id, 10), nil, &wire); err != nil {
		return nil, err
	}
	return wire.toRole(), nil
}

// Save creates or updates a role. The user-relation deltas in the input only
// apply on update; on create they are stripped from the payload.
func (s *RoleService) Save(ctx context.Context, id uint64, input console.RoleSaveInput) (*console.Role, error) {
	if input.Name == "" {
		return nil, console.NewConsoleError(console.ErrorTypeValidation, console.ErrCodeRequiredField,
			"Name is required").WithField("name")
	}

	var wire roleWire
	var err error
	if id == 0 {
		input.Add = nil
		input.Clear = nil
		err = s.client.Post(ctx, "/role", input, &wire)
	} else {
		err = s.client.Put(ctx, "/role/"+strconv.FormatUint(id, 10), input, &wire)
	}
	if err != nil {
		return nil, err
	}

	role := wire.toRole()
	s.logger.Info("role saved", zap.Uint64("id", role.ID), zap.String("name", role.Name), zap.Bool("created", id == 0))
	return role, nil
}

// Delete removes a role.
func (s *RoleService) Delete(ctx context.Context, id uint64) error {
	if err := s.client.Delete(ctx, "/role/"+strconv.FormatUint(id, 10), nil, nil); err != nil {
		return err
	}
	s.logger.Info("role deleted", zap.Uint64("id", id))
	return nil
}

// GetResources returns the permission editor's resource tree. Whitelisted
// resources are granted to everyone and dropped; groups left empty after
// filtering are dropped with them.
func (s *RoleService) GetResources(ctx context.Context) ([]console.Resource, error) {
	var resources []console.Resource
	if err := s.client.Get(ctx, "/role/resources", nil, &resources); err != nil {
		return nil, err
	}
	return filterResources(resources), nil
}

func filterResources(resources []console.Resource) []console.Resource {
	out := make([]console.Resource, 0, len(resources))
	for _, resource := range resources {
		if resource.Whitelist {
			continue
		}
		if resource.Group {
			resource.Resources = filterResources(resource.Resources)
			if len(resource.Resources) == 0 {
				continue
			}
		}
		out = append(out, resource)
	}
	return out
}

// ResourceByID finds a resource node by id anywhere in the tree.
func ResourceByID(resources []console.Resource, id string) (console.Resource, bool) {
	for _, resource := range resources {
		if resource.ID == id {
			return resource, true
		}
		if found, ok := ResourceByID(resource.Resources, id); ok {
			return found, ok
		}
	}
	return console.Resource{}, false
}
