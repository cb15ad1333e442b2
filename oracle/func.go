package oracle

import "context"

// FuncOracle adapts a plain function to the Oracle interface, with an
// optional country-code table. Grounded on oracle.py's FunctionOracle;
// used in tests to express ad hoc classifiers inline (e.g. spec scenario
// S1's "uniform everywhere", or a checkerboard that never proves uniform).
type FuncOracle struct {
	Func  func(ilat, ilon int64) CountryID
	Codes map[CountryID]string
}

func (o FuncOracle) Lookup(_ context.Context, ilat, ilon int64) (CountryID, error) {
	return o.Func(ilat, ilon), nil
}

func (o FuncOracle) LookupBatch(ctx context.Context, points []Point) ([]CountryID, error) {
	return (BatchFromLookup{Lookuper: o}).LookupBatch(ctx, points)
}

func (o FuncOracle) CountryCodes() map[CountryID]string {
	if o.Codes == nil {
		return map[CountryID]string{OceanID: "---"}
	}
	return o.Codes
}
