package common

// AnomalyLevel is the severity label assigned by the anomaly scoring service
type AnomalyLevel string

const (
	// AnomalyLevelWeak marks a weak anomaly
	AnomalyLevelWeak AnomalyLevel = "WEAK"
	// AnomalyLevelStrong marks a strong anomaly
	AnomalyLevelStrong AnomalyLevel = "STRONG"
)

// SampleMetric is the metrictank-shaped synthetic metric sent on the metrics topic
type SampleMetric struct {
	OrgId    int      `codec:"OrgId"`
	Name     string   `codec:"Name"`
	Interval int      `codec:"Interval"`
	Value    float64  `codec:"Value"`
	Unit     string   `codec:"Unit"`
	Time     int64    `codec:"Time"`
	Mtype    string   `codec:"Mtype"`
	Tags     []string `codec:"Tags"`
}

// TagSet holds the key-value and value-only tags of a metric definition
type TagSet struct {
	KV map[string]string `json:"kv"`
	V  []string          `json:"v"`
}

// MetricDefinition identifies a metric in the JSON metric data format
type MetricDefinition struct {
	Key  string `json:"key"`
	Tags TagSet `json:"tags"`
	Meta TagSet `json:"meta"`
}

// MetricData is the JSON alternative of SampleMetric
type MetricData struct {
	MetricDefinition MetricDefinition `json:"metricDefinition"`
	Value            float64          `json:"value"`
	Timestamp        int64            `json:"timestamp"`
}

// AnomalyReport holds the values of the anomalies read back from the anomalies topic
type AnomalyReport struct {
	Weak      []float64
	Strong    []float64
	Total     int
	Anomalies int
}

// HasAnomalies returns true if at least one WEAK or STRONG anomaly was found
func (report *AnomalyReport) HasAnomalies() bool {
	return report.Anomalies > 0
}

// SendStats holds the outcome of a sample sending session
type SendStats struct {
	Attempted int
	Failed    int
}
