package client_test

import (
	"encoding/json"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"taskflow/pkg/client"
)

func TestNormalizeSummary_CamelCase(t *testing.T) {
	RegisterTestingT(t)

	summary := client.NormalizeSummary(json.RawMessage(
		`{"totalCount":10,"completedCount":4,"pendingCount":6}`))

	Expect(summary.Total).To(Equal(10))
	Expect(summary.Completed).To(Equal(4))
	Expect(summary.Pending).To(Equal(6))
	Expect(summary.Progress).To(BeNumerically("~", 0.4, 1e-9))
}

func TestNormalizeSummary_PascalCase(t *testing.T) {
	RegisterTestingT(t)

	summary := client.NormalizeSummary(json.RawMessage(
		`{"TotalCount":3,"CompletedCount":1,"PendingCount":2}`))

	Expect(summary.Total).To(Equal(3))
	Expect(summary.Completed).To(Equal(1))
	Expect(summary.Pending).To(Equal(2))
}

func TestNormalizeSummary_ShortKeys(t *testing.T) {
	RegisterTestingT(t)

	summary := client.NormalizeSummary(json.RawMessage(
		`{"Total":5,"Completed":5}`))

	Expect(summary.Total).To(Equal(5))
	Expect(summary.Completed).To(Equal(5))
	Expect(summary.Pending).To(Equal(0))
	Expect(summary.Progress).To(BeNumerically("~", 1.0, 1e-9))
}

func TestNormalizeSummary_MissingPendingIsDerived(t *testing.T) {
	RegisterTestingT(t)

	summary := client.NormalizeSummary(json.RawMessage(
		`{"totalCount":8,"completedCount":3}`))

	Expect(summary.Pending).To(Equal(5))
}

func TestNormalizeSummary_EmptyOrMalformed(t *testing.T) {
	RegisterTestingT(t)

	for _, raw := range []string{`{}`, `null`, `not json`, `[]`} {
		summary := client.NormalizeSummary(json.RawMessage(raw))

		Expect(summary.Total).To(Equal(0), "payload: %s", raw)
		Expect(summary.Completed).To(Equal(0))
		Expect(summary.Pending).To(Equal(0))
		Expect(summary.Progress).To(Equal(0.0))
	}
}

func TestNormalizeWeeklySummary_MixedCasing(t *testing.T) {
	RegisterTestingT(t)

	weekly := client.NormalizeWeeklySummary(json.RawMessage(
		`{"Sunday":{"Total":2,"Completed":1},"wednesday":{"total":3,"completed":0}}`))

	Expect(weekly.Day(time.Sunday).Total).To(Equal(2))
	Expect(weekly.Day(time.Sunday).Completed).To(Equal(1))
	Expect(weekly.Day(time.Wednesday).Total).To(Equal(3))
	Expect(weekly.Day(time.Monday)).To(Equal(client.DayCounts{}))
	Expect(weekly.Day(time.Saturday)).To(Equal(client.DayCounts{}))
}

func TestNormalizeWeeklySummary_Malformed(t *testing.T) {
	RegisterTestingT(t)

	weekly := client.NormalizeWeeklySummary(json.RawMessage(`not json`))

	for day := time.Sunday; day <= time.Saturday; day++ {
		Expect(weekly.Day(day)).To(Equal(client.DayCounts{}))
	}
}
