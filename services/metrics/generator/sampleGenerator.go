package generator

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/iulianpascalau/aa-samples/services/metrics/common"
)

const (
	orgID         = 1
	metricName    = "samplemetric"
	intervalInMin = 15
	unit          = "unknown"
	metricType    = "gauge"

	minValue  = 10.0
	maxValue  = 200.0
	minTagIdx = 1
	maxTagIdx = 200000
)

// RandomSource defines the random numbers needed to build a sample
type RandomSource interface {
	Float64() float64
	IntN(n int) int
}

// ArgsSampleGenerator is the DTO used to create a new sample generator
type ArgsSampleGenerator struct {
	RandomTag   bool
	Rand        RandomSource
	TimeHandler func() time.Time
}

type sampleGenerator struct {
	randomTag   bool
	rand        RandomSource
	timeHandler func() time.Time
}

// NewSampleGenerator creates a new synthetic metric generator. Missing random source and time handler are
// replaced with the process defaults.
func NewSampleGenerator(args ArgsSampleGenerator) *sampleGenerator {
	g := &sampleGenerator{
		randomTag:   args.RandomTag,
		rand:        args.Rand,
		timeHandler: args.TimeHandler,
	}
	if g.rand == nil {
		g.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if g.timeHandler == nil {
		g.timeHandler = time.Now
	}

	return g
}

// Generate builds a fresh sample metric
func (g *sampleGenerator) Generate() common.SampleMetric {
	what := "what=" + metricName
	if g.randomTag {
		what = fmt.Sprintf("what=%s%d", metricName, minTagIdx+g.rand.IntN(maxTagIdx-minTagIdx))
	}

	return common.SampleMetric{
		OrgId:    orgID,
		Name:     metricName,
		Interval: intervalInMin,
		Value:    g.randomValue(),
		Unit:     unit,
		Time:     g.timeHandler().Unix(),
		Mtype:    metricType,
		Tags: []string{
			what,
			"m_application=sample-web",
			"region=primary",
			"env=prod",
		},
	}
}

// randomValue is uniform in [minValue, maxValue] with one decimal
func (g *sampleGenerator) randomValue() float64 {
	value := minValue + g.rand.Float64()*(maxValue-minValue)

	return math.Round(value*10) / 10
}

// IsInterfaceNil returns true if the value under the interface is nil
func (g *sampleGenerator) IsInterfaceNil() bool {
	return g == nil
}
