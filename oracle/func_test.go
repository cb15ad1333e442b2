package oracle_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skibsted/adm0reverse/oracle"
)

func TestFuncOracle_DelegatesToFunc(t *testing.T) {
	o := oracle.FuncOracle{
		Func: func(ilat, ilon int64) oracle.CountryID {
			if ilat > 9000 {
				return 1
			}
			return 2
		},
	}

	id, err := o.Lookup(context.Background(), 9500, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)

	id, err = o.Lookup(context.Background(), 100, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, id)
}

func TestFuncOracle_CountryCodesDefaultsToOceanOnly(t *testing.T) {
	o := oracle.FuncOracle{Func: func(ilat, ilon int64) oracle.CountryID { return oracle.OceanID }}
	codes := o.CountryCodes()
	assert.Equal(t, map[oracle.CountryID]string{oracle.OceanID: "---"}, codes)
}

func TestFuncOracle_CountryCodesHonorsOverride(t *testing.T) {
	custom := map[oracle.CountryID]string{oracle.OceanID: "---", 1: "XX"}
	o := oracle.FuncOracle{
		Func:  func(ilat, ilon int64) oracle.CountryID { return 1 },
		Codes: custom,
	}
	assert.Equal(t, custom, o.CountryCodes())
}

func TestFuncOracle_LookupBatchMatchesSequentialLookup(t *testing.T) {
	o := oracle.FuncOracle{
		Func: func(ilat, ilon int64) oracle.CountryID { return oracle.CountryID(ilat + ilon) },
	}
	points := []oracle.Point{{Ilat: 1, Ilon: 2}, {Ilat: 3, Ilon: 4}}

	ids, err := o.LookupBatch(context.Background(), points)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.EqualValues(t, 3, ids[0])
	assert.EqualValues(t, 7, ids[1])
}

func TestBatchFromLookup_PropagatesError(t *testing.T) {
	boom := assertErrorOracle{}
	ids, err := (oracle.BatchFromLookup{Lookuper: boom}).LookupBatch(context.Background(), []oracle.Point{{}})
	assert.Error(t, err)
	assert.Nil(t, ids)
}

type assertErrorOracle struct{}

func (assertErrorOracle) Lookup(context.Context, int64, int64) (oracle.CountryID, error) {
	return 0, errBoom
}

var errBoom = &boomErr{}

type boomErr struct{}

func (*boomErr) Error() string { return "boom" }
