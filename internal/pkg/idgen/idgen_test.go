package idgen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/irmakh/gemini-rpg/internal/pkg/idgen"
)

type IDGenTestSuite struct {
	suite.Suite
}

func TestIDGenSuite(t *testing.T) {
	suite.Run(t, new(IDGenTestSuite))
}

func (s *IDGenTestSuite) TestUUIDGenerator() {
	s.Run("with prefix", func() {
		gen := idgen.NewUUID("item")
		id := gen.Generate()
		s.True(strings.HasPrefix(id, "item_"))
		s.NotEqual(id, gen.Generate())
	})

	s.Run("without prefix", func() {
		id := idgen.NewUUID("").Generate()
		s.Len(id, 36)
	})
}

func (s *IDGenTestSuite) TestSequentialGenerator() {
	gen := idgen.NewSequential("item")
	s.Equal("item_1", gen.Generate())
	s.Equal("item_2", gen.Generate())

	bare := idgen.NewSequential("")
	s.Equal("1", bare.Generate())
}
