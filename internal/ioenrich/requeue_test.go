package ioenrich_test

import (
	"testing"

	"github.com/cladecanvas/cladedb/internal/ioenrich"
	"github.com/gnames/gnparser"
	"github.com/stretchr/testify/assert"
)

func TestIsWrongEntity(t *testing.T) {
	parser := gnparser.New(gnparser.NewConfig())

	tests := []struct {
		msg      string
		nodeName string
		common   string
		want     bool
	}{
		{
			"vernacular, lowercase",
			"Pan troglodytes", "chimpanzee", false,
		},
		{
			"vernacular, multi-word",
			"Mus musculus", "House mouse", false,
		},
		{
			"variant spelling, shared root",
			"Holothuroidea", "Holothuroidae", false,
		},
		{
			"different Latin family name",
			"Bilateria", "Priapulidae", true,
		},
		{
			"different Latin uninomial",
			"Danaus", "Formicidae", true,
		},
		{
			"empty common name",
			"Danaus", "", false,
		},
	}

	for _, v := range tests {
		got := ioenrich.IsWrongEntity(parser, v.nodeName, v.common)
		assert.Equal(t, v.want, got, v.msg)
	}
}
