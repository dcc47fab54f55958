package main

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/mdzio/go-gbwmi/attr"
	"github.com/mdzio/go-gbwmi/service"
)

// backend gives access to the attributes, either directly or through a
// running attribute service.
type backend interface {
	ListAttributes() ([]*service.AttributeDescription, error)
	GetValue(group, name string) (string, error)
	SetValue(group, name, text string) error
	GetParamset(group string) (map[string]string, error)
}

// localBackend accesses the firmware of this machine.
type localBackend struct {
	surface     *attr.Surface
	callTimeout time.Duration
}

var _ backend = &localBackend{}
var _ backend = &service.Client{}

func (b *localBackend) context() (context.Context, context.CancelFunc) {
	if b.callTimeout > 0 {
		return context.WithTimeout(context.Background(), b.callTimeout)
	}
	return context.Background(), func() {}
}

func (b *localBackend) ListAttributes() ([]*service.AttributeDescription, error) {
	return service.Describe(b.surface), nil
}

func (b *localBackend) GetValue(group, name string) (string, error) {
	ctx, cancel := b.context()
	defer cancel()
	v, err := b.surface.Read(ctx, group, name)
	return strings.TrimSuffix(v, "\n"), err
}

func (b *localBackend) SetValue(group, name, text string) error {
	ctx, cancel := b.context()
	defer cancel()
	return b.surface.Write(ctx, group, name, text)
}

func (b *localBackend) GetParamset(group string) (map[string]string, error) {
	ctx, cancel := b.context()
	defer cancel()
	vs, err := b.surface.ReadGroup(ctx, group)
	if err != nil {
		return nil, err
	}
	ps := make(map[string]string, len(vs))
	for n, v := range vs {
		ps[n] = strconv.FormatUint(v, 10)
	}
	return ps, nil
}
