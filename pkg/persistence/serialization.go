package persistence

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/airdrop"
)

// MarshalDistribution serializes a Distribution to JSON bytes.
func MarshalDistribution(d *airdrop.Distribution) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("cannot marshal nil Distribution")
	}
	return airdrop.MarshalDistribution(d)
}

// UnmarshalDistribution deserializes a Distribution from JSON bytes.
func UnmarshalDistribution(data []byte) (*airdrop.Distribution, error) {
	return airdrop.UnmarshalDistribution(data)
}

// MarshalPublicationRecord serializes a PublicationRecord to JSON bytes.
func MarshalPublicationRecord(r *PublicationRecord) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("cannot marshal nil PublicationRecord")
	}
	return json.Marshal(r)
}

// UnmarshalPublicationRecord deserializes a PublicationRecord from JSON bytes.
func UnmarshalPublicationRecord(data []byte) (*PublicationRecord, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var r PublicationRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to PublicationRecord: %w", err)
	}
	return &r, nil
}

// CopyDistribution returns a deep copy via a JSON round trip, so stored
// values cannot be mutated through returned pointers.
func CopyDistribution(d *airdrop.Distribution) (*airdrop.Distribution, error) {
	data, err := MarshalDistribution(d)
	if err != nil {
		return nil, err
	}
	return UnmarshalDistribution(data)
}

// SortDistributions orders distributions by CreatedAt, breaking ties by root.
func SortDistributions(ds []*airdrop.Distribution) {
	sort.Slice(ds, func(i, j int) bool {
		if ds[i].CreatedAt != ds[j].CreatedAt {
			return ds[i].CreatedAt < ds[j].CreatedAt
		}
		return strings.Compare(ds[i].Root.Hex(), ds[j].Root.Hex()) < 0
	})
}
