package booking

import (
	"github.com/lithammer/shortuuid/v3"
)

type ReferenceGenerator interface {
	Next() string
}

// ShortReferenceGenerator produces human friendly references like TB-7vHk2QdZpX.
type ShortReferenceGenerator struct {
	prefix string
}

func NewShortReferenceGenerator(prefix string) *ShortReferenceGenerator {
	return &ShortReferenceGenerator{prefix: prefix}
}

func (g *ShortReferenceGenerator) Next() string {
	return g.prefix + "-" + shortuuid.New()[:10]
}
