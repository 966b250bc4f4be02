package kafka

import (
	"fmt"
	"strings"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/kafkaready/validation"
)

// TopicSpec is one topic to create.
type TopicSpec struct {
	Name              string `json:"name"`
	Partitions        int    `json:"partitions"`
	ReplicationFactor int    `json:"replication_factor"`
}

// TopicListing is one entry of the cluster's topic listing.
type TopicListing struct {
	Name     string `json:"name"`
	Internal bool   `json:"internal,omitempty"`
}

// BuildTopicSpecs turns names into specs sharing one partition count and
// replication factor. Names are trimmed; blank names and non-positive
// counts are rejected with INVALID_INPUT.
func BuildTopicSpecs(names []string, partitions, replicationFactor int) ([]TopicSpec, error) {
	v := validation.New().
		Min("num_of_partitions", partitions, 1).
		Min("replication_factor", replicationFactor, 1)

	specs := make([]TopicSpec, 0, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			v.AddError(fmt.Sprintf("topic_names_to_create[%d]", i), "is required")
			continue
		}
		specs = append(specs, TopicSpec{
			Name:              name,
			Partitions:        partitions,
			ReplicationFactor: replicationFactor,
		})
	}
	if err := v.Error(); err != nil {
		return nil, err
	}
	return specs, nil
}

// SpecNames returns the names of specs, in order.
func SpecNames(specs []TopicSpec) []string {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return names
}

// ContainsTopic reports whether listing contains name. Both sides are trimmed
// and compared exactly; a blank name is never present.
func ContainsTopic(listing []TopicListing, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	for _, t := range listing {
		if strings.TrimSpace(t.Name) == name {
			return true
		}
	}
	return false
}

func (s TopicSpec) toKafka() kafkago.TopicConfig {
	return kafkago.TopicConfig{
		Topic:             s.Name,
		NumPartitions:     s.Partitions,
		ReplicationFactor: s.ReplicationFactor,
	}
}
