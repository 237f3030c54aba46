// Copyright 2025 RodeoAI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"

	"github.com/rodeoai/chute/core"
)

// Review queue entries are stored in MUS format. The serializers below are
// hand-written over the mus-go primitive serializers; field order is part of
// the storage format and must not change between releases.

// MarshalReviewEntry serializes a ReviewQueueEntry to bytes.
func MarshalReviewEntry(entry *core.ReviewQueueEntry) []byte {
	buf := make([]byte, SizeReviewEntry(entry))
	n := copy(buf, entry.ID[:])
	n += ord.String.Marshal(entry.Filename, buf[n:])
	n += copy(buf[n:], entry.FileFingerprint[:])
	n += ord.String.Marshal(string(entry.Reason), buf[n:])
	n += marshalTriage(entry.Triage, buf[n:])
	n += marshalQuality(entry.Quality, buf[n:])
	n += varint.Int64.Marshal(entry.AddedAt.UnixMicro(), buf[n:])
	varint.Int.Marshal(int(entry.Status), buf[n:])
	return buf
}

// SizeReviewEntry returns the serialized size of a ReviewQueueEntry.
func SizeReviewEntry(entry *core.ReviewQueueEntry) int {
	size := len(entry.ID)
	size += ord.String.Size(entry.Filename)
	size += core.FingerprintSize
	size += ord.String.Size(string(entry.Reason))
	size += sizeTriage(entry.Triage)
	size += sizeQuality(entry.Quality)
	size += varint.Int64.Size(entry.AddedAt.UnixMicro())
	size += varint.Int.Size(int(entry.Status))
	return size
}

// UnmarshalReviewEntry deserializes a ReviewQueueEntry from bytes.
func UnmarshalReviewEntry(data []byte) (*core.ReviewQueueEntry, error) {
	entry := &core.ReviewQueueEntry{}
	n := 0

	if len(data) < len(uuid.UUID{}) {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, ErrTruncatedData)
	}
	n += copy(entry.ID[:], data)

	filename, cnt, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: filename: %w", ErrSerializationFailed, err)
	}
	entry.Filename = filename
	n += cnt

	if len(data[n:]) < core.FingerprintSize {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, ErrTruncatedData)
	}
	n += copy(entry.FileFingerprint[:], data[n:])

	reason, cnt, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: reason: %w", ErrSerializationFailed, err)
	}
	entry.Reason = core.ReasonCode(reason)
	n += cnt

	triage, cnt, err := unmarshalTriage(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: triage: %w", ErrSerializationFailed, err)
	}
	entry.Triage = triage
	n += cnt

	quality, cnt, err := unmarshalQuality(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: quality: %w", ErrSerializationFailed, err)
	}
	entry.Quality = quality
	n += cnt

	micros, cnt, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: added at: %w", ErrSerializationFailed, err)
	}
	entry.AddedAt = time.UnixMicro(micros).UTC()
	n += cnt

	status, _, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: status: %w", ErrSerializationFailed, err)
	}
	entry.Status = core.ReviewStatus(status)

	return entry, nil
}

func marshalTriage(v *core.TriageVerdict, bs []byte) (n int) {
	n = ord.Bool.Marshal(v != nil, bs)
	if v == nil {
		return n
	}
	n += varint.Int.Marshal(int(v.Label), bs[n:])
	n += varint.Int.Marshal(v.Score, bs[n:])
	n += varint.Int.Marshal(v.Confidence, bs[n:])
	n += marshalStrings(v.Reasons, bs[n:])
	return n
}

func sizeTriage(v *core.TriageVerdict) int {
	size := ord.Bool.Size(v != nil)
	if v == nil {
		return size
	}
	size += varint.Int.Size(int(v.Label))
	size += varint.Int.Size(v.Score)
	size += varint.Int.Size(v.Confidence)
	size += sizeStrings(v.Reasons)
	return size
}

func unmarshalTriage(bs []byte) (*core.TriageVerdict, int, error) {
	present, n, err := ord.Bool.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if !present {
		return nil, n, nil
	}

	v := &core.TriageVerdict{}
	label, cnt, err := varint.Int.Unmarshal(bs[n:])
	if err != nil {
		return nil, n, err
	}
	v.Label = core.TriageLabel(label)
	n += cnt

	if v.Score, cnt, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return nil, n, err
	}
	n += cnt

	if v.Confidence, cnt, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return nil, n, err
	}
	n += cnt

	if v.Reasons, cnt, err = unmarshalStrings(bs[n:]); err != nil {
		return nil, n, err
	}
	n += cnt

	return v, n, nil
}

func marshalQuality(r *core.QualityReport, bs []byte) (n int) {
	n = ord.Bool.Marshal(r != nil, bs)
	if r == nil {
		return n
	}
	n += varint.Int.Marshal(r.Score, bs[n:])
	n += varint.Int.Marshal(int(r.Verdict), bs[n:])
	n += marshalStrings(r.Issues, bs[n:])
	n += marshalStrings(r.Warnings, bs[n:])
	return n
}

func sizeQuality(r *core.QualityReport) int {
	size := ord.Bool.Size(r != nil)
	if r == nil {
		return size
	}
	size += varint.Int.Size(r.Score)
	size += varint.Int.Size(int(r.Verdict))
	size += sizeStrings(r.Issues)
	size += sizeStrings(r.Warnings)
	return size
}

func unmarshalQuality(bs []byte) (*core.QualityReport, int, error) {
	present, n, err := ord.Bool.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if !present {
		return nil, n, nil
	}

	r := &core.QualityReport{}
	var cnt int
	if r.Score, cnt, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return nil, n, err
	}
	n += cnt

	verdict, cnt, err := varint.Int.Unmarshal(bs[n:])
	if err != nil {
		return nil, n, err
	}
	r.Verdict = core.QualityVerdict(verdict)
	n += cnt

	if r.Issues, cnt, err = unmarshalStrings(bs[n:]); err != nil {
		return nil, n, err
	}
	n += cnt

	if r.Warnings, cnt, err = unmarshalStrings(bs[n:]); err != nil {
		return nil, n, err
	}
	n += cnt

	return r, n, nil
}

func marshalStrings(ss []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(ss), bs)
	for _, s := range ss {
		n += ord.String.Marshal(s, bs[n:])
	}
	return n
}

func sizeStrings(ss []string) int {
	size := varint.Int.Size(len(ss))
	for _, s := range ss {
		size += ord.String.Size(s)
	}
	return size
}

func unmarshalStrings(bs []byte) ([]string, int, error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length < 0 {
		return nil, n, ErrTruncatedData
	}
	if length == 0 {
		return nil, n, nil
	}

	ss := make([]string, length)
	for i := range ss {
		s, cnt, err := ord.String.Unmarshal(bs[n:])
		if err != nil {
			return nil, n, err
		}
		ss[i] = s
		n += cnt
	}
	return ss, n, nil
}
