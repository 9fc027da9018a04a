package models

// SurfaceResult is the reshaped output of one volatility computation:
// the engine's per-type data with heavy sub-keys stripped, the raw grid
// pivoted by tenor label, and the fixed-grid skew summary.
type SurfaceResult struct {
	DataDict map[string]map[string]interface{}
	SkewDict map[string]interface{}
	SkewData *SkewSummary
}

// Tree flattens the result into the nested map shape that gets encoded and
// written to <key>.json.
func (r *SurfaceResult) Tree() map[string]interface{} {
	dataDict := make(map[string]interface{}, len(r.DataDict))
	for volType, data := range r.DataDict {
		dataDict[volType] = data
	}

	return map[string]interface{}{
		"data_dict": dataDict,
		"skew_dict": r.SkewDict,
		"skew_data": r.SkewData.Tree(),
	}
}
