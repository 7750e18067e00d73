// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bsontree

import (
	"fmt"
	"math/big"

	"github.com/cespare/xxhash/v2"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Normalize returns a copy of doc in which the scalar types a Builder stores
// but BSON cannot encode directly are replaced by their BSON equivalents:
//
//	Builder type      | BSON type
//	----------------- | ----------------------------------------------
//	*big.Int          | int64 if it fits, otherwise primitive.Decimal128
//	decimal.Decimal   | primitive.Decimal128
//	float32           | float64
//	[]byte            | primitive.Binary (generic subtype)
//
// Other values are kept as given. Normalize reports an error if a value is
// out of range for its BSON representation. The input is not modified.
func Normalize(doc bson.D) (bson.D, error) {
	out, err := normalizeValue(doc)
	if err != nil {
		return nil, err
	}
	return out.(bson.D), nil
}

func normalizeValue(v any) (any, error) {
	switch t := v.(type) {
	case bson.D:
		out := make(bson.D, len(t))
		for i, e := range t {
			nv, err := normalizeValue(e.Value)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", e.Key, err)
			}
			out[i] = bson.E{Key: e.Key, Value: nv}
		}
		return out, nil
	case bson.A:
		out := make(bson.A, len(t))
		for i, elt := range t {
			nv, err := normalizeValue(elt)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = nv
		}
		return out, nil
	case *big.Int:
		if t.IsInt64() {
			return t.Int64(), nil
		}
		d, ok := primitive.ParseDecimal128FromBigInt(t, 0)
		if !ok {
			return nil, fmt.Errorf("integer %v out of range for decimal128", t)
		}
		return d, nil
	case decimal.Decimal:
		d, ok := primitive.ParseDecimal128FromBigInt(t.Coefficient(), int(t.Exponent()))
		if !ok {
			return nil, fmt.Errorf("decimal %v out of range for decimal128", t)
		}
		return d, nil
	case float32:
		return float64(t), nil
	case []byte:
		return primitive.Binary{Subtype: bson.TypeBinaryGeneric, Data: t}, nil
	default:
		return v, nil
	}
}

// Marshal normalizes doc and returns its BSON encoding.
func Marshal(doc bson.D) ([]byte, error) {
	nd, err := Normalize(doc)
	if err != nil {
		return nil, err
	}
	return bson.Marshal(nd)
}

// Fingerprint returns a 64-bit hash of the BSON encoding of doc. Documents
// with equal fingerprints have, with high probability, the same encoding.
func Fingerprint(doc bson.D) (uint64, error) {
	data, err := Marshal(doc)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}
