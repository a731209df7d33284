package hdf5

import (
	"fmt"

	"github.com/goframed/hdf5/internal/core"
	"github.com/goframed/hdf5/internal/herrors"
)

// ValueKind distinguishes how a DecodedValue's Shape should be interpreted,
// mirroring the "scalar vs. 1-D vs. 2-D vs. N-D" distinction the dataspace
// itself makes.
type ValueKind int

const (
	KindScalar ValueKind = iota
	KindSeq
	KindMatrix
	KindND
)

// DecodedValue is the dtype-agnostic result of reading a dataset or
// attribute: a declared shape plus the values. From Dataset.ReadValue, Value
// holds the flattened row-major values as one of []float64, []string, or
// []core.CompoundValue, matching whichever of Dataset.Read / ReadStrings /
// ReadCompound produced it. From Dataset.ReadAttributeValue, Value is what
// core.Attribute.ReadValue returns: a single value for a scalar or
// one-element attribute, otherwise a typed slice such as []int32 or []string.
type DecodedValue struct {
	Shape []int
	Kind  ValueKind
	Value interface{}
}

func classifyShape(dims []uint64) (ValueKind, []int) {
	shape := make([]int, len(dims))
	for i, d := range dims {
		//nolint:gosec // G115: dataspace dimensions fit in int for host-facing shape reporting
		shape[i] = int(d)
	}
	switch len(dims) {
	case 0:
		return KindScalar, shape
	case 1:
		return KindSeq, shape
	case 2:
		return KindMatrix, shape
	default:
		return KindND, shape
	}
}

// ReadValue reads the dataset's values and returns them as a DecodedValue,
// dispatching on the dataset's datatype class to the matching typed reader.
func (d *Dataset) ReadValue() (*DecodedValue, error) {
	info, err := d.info()
	if err != nil {
		return nil, err
	}
	kind, shape := classifyShape(info.Dataspace.Dimensions)

	switch info.Datatype.Class {
	case core.DatatypeFixed, core.DatatypeFloat:
		values, err := d.Read()
		if err != nil {
			return nil, err
		}
		return &DecodedValue{Shape: shape, Kind: kind, Value: values}, nil
	case core.DatatypeString:
		values, err := d.ReadStrings()
		if err != nil {
			return nil, err
		}
		return &DecodedValue{Shape: shape, Kind: kind, Value: values}, nil
	case core.DatatypeCompound:
		values, err := d.ReadCompound()
		if err != nil {
			return nil, err
		}
		return &DecodedValue{Shape: shape, Kind: kind, Value: values}, nil
	default:
		return nil, fmt.Errorf("%w: class %v", herrors.ErrUnsupportedDatatype, info.Datatype.Class)
	}
}

// ReadAttributeValue reads a single named attribute and returns it as a
// DecodedValue, shaped the same way ReadValue shapes dataset reads.
func (d *Dataset) ReadAttributeValue(name string) (*DecodedValue, error) {
	attrs, err := d.Attributes()
	if err != nil {
		return nil, err
	}

	for _, attr := range attrs {
		if attr.Name != name {
			continue
		}
		raw, err := attr.ReadValue()
		if err != nil {
			return nil, err
		}
		kind, shape := classifyShape(attr.Dataspace.Dimensions)
		return &DecodedValue{Shape: shape, Kind: kind, Value: raw}, nil
	}

	return nil, fmt.Errorf("%w: attribute %q", herrors.ErrPathNotFound, name)
}
