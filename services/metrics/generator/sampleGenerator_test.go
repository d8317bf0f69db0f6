package generator

import (
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/iulianpascalau/aa-samples/services/metrics/testsCommon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSampleGenerator(t *testing.T) {
	t.Parallel()

	g := NewSampleGenerator(ArgsSampleGenerator{})
	assert.False(t, g.IsInterfaceNil())
	assert.NotNil(t, g.rand)
	assert.NotNil(t, g.timeHandler)
}

func TestSampleGenerator_Generate(t *testing.T) {
	t.Parallel()

	fixedTime := time.Unix(1700000000, 0)

	t.Run("fixed fields", func(t *testing.T) {
		t.Parallel()

		g := NewSampleGenerator(ArgsSampleGenerator{
			RandomTag: false,
			Rand: &testsCommon.RandomSourceStub{
				Float64Handler: func() float64 {
					return 0.5
				},
			},
			TimeHandler: func() time.Time {
				return fixedTime
			},
		})

		sample := g.Generate()
		assert.Equal(t, 1, sample.OrgId)
		assert.Equal(t, "samplemetric", sample.Name)
		assert.Equal(t, 15, sample.Interval)
		assert.Equal(t, 105.0, sample.Value)
		assert.Equal(t, "unknown", sample.Unit)
		assert.Equal(t, int64(1700000000), sample.Time)
		assert.Equal(t, "gauge", sample.Mtype)
		assert.Equal(t, []string{"what=samplemetric", "m_application=sample-web", "region=primary", "env=prod"}, sample.Tags)
	})
	t.Run("value bounds", func(t *testing.T) {
		t.Parallel()

		r := 0.0
		g := NewSampleGenerator(ArgsSampleGenerator{
			Rand: &testsCommon.RandomSourceStub{
				Float64Handler: func() float64 {
					return r
				},
			},
		})

		assert.Equal(t, 10.0, g.Generate().Value)

		r = math.Nextafter(1, 0)
		assert.Equal(t, 200.0, g.Generate().Value)
	})
	t.Run("random tag bounds", func(t *testing.T) {
		t.Parallel()

		providedN := 0
		g := NewSampleGenerator(ArgsSampleGenerator{
			RandomTag: true,
			Rand: &testsCommon.RandomSourceStub{
				IntNHandler: func(n int) int {
					providedN = n
					return n - 1
				},
			},
		})

		sample := g.Generate()
		assert.Equal(t, 199999, providedN)
		assert.Equal(t, "what=samplemetric199999", sample.Tags[0])
	})
}

func TestSampleGenerator_GenerateProperties(t *testing.T) {
	t.Parallel()

	g := NewSampleGenerator(ArgsSampleGenerator{RandomTag: true})
	for i := 0; i < 10000; i++ {
		sample := g.Generate()

		require.GreaterOrEqual(t, sample.Value, 10.0)
		require.LessOrEqual(t, sample.Value, 200.0)
		scaled := sample.Value * 10
		require.InDelta(t, math.Round(scaled), scaled, 1e-6)

		require.True(t, strings.HasPrefix(sample.Tags[0], "what=samplemetric"))
		idx, err := strconv.Atoi(strings.TrimPrefix(sample.Tags[0], "what=samplemetric"))
		require.Nil(t, err)
		require.GreaterOrEqual(t, idx, 1)
		require.Less(t, idx, 200000)
	}
}
