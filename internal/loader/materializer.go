package loader

import (
	"errors"

	"filefixtures/internal/domain"
	"filefixtures/internal/registry"
)

// Resolver finds the constructor for a dotted model name
type Resolver interface {
	Resolve(name string) (registry.Constructor, error)
}

// materializer turns groups into instances, resolving each model name at
// most once for its lifetime
type materializer struct {
	resolver Resolver
	types    map[string]registry.Constructor
}

func newMaterializer(resolver Resolver) *materializer {
	return &materializer{
		resolver: resolver,
		types:    make(map[string]registry.Constructor),
	}
}

func (m *materializer) resolve(path, model string) (registry.Constructor, error) {
	if c, ok := m.types[model]; ok {
		return c, nil
	}

	c, err := m.resolver.Resolve(model)
	if err != nil {
		var tre *domain.TypeResolutionError
		if errors.As(err, &tre) {
			resolved := *tre
			resolved.Path = path
			return nil, &resolved
		}
		return nil, &domain.TypeResolutionError{Path: path, Model: model, Reason: err}
	}

	m.types[model] = c
	return c, nil
}

// materialize builds the instances of all groups of one file, in group then
// record order
func (m *materializer) materialize(path string, groups []domain.Group) ([]any, error) {
	instances := make([]any, 0, domain.CountRecords(groups))

	for gi, g := range groups {
		build, err := m.resolve(path, g.Model)
		if err != nil {
			return nil, err
		}

		for ri, rec := range g.Records {
			inst, err := build(rec)
			if err == nil && inst == nil {
				err = errors.New("constructor returned no instance")
			}
			if err != nil {
				rce := &domain.RecordConstructionError{
					Path:  path,
					Model: g.Model,
					Group: gi,
					Index: ri,
					Err:   err,
				}
				var ufe *domain.UnknownFieldError
				if errors.As(err, &ufe) {
					rce.Field = ufe.Field
				}
				return nil, rce
			}
			instances = append(instances, inst)
		}
	}

	return instances, nil
}
