package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Validate(t *testing.T) {
	tests := []struct {
		name     string
		filter   *Filter
		expected map[string][]string
	}{
		{"合法selector", Selector("a", 1), nil},
		{"selector空值合法", Selector("a", nil), nil},
		{"合法组合", Dimension("a").In(1, 2).And(Dimension("b").Gt(3)), nil},
		{"合法空间过滤", Dimension("a").InCirc([]float64{1, 2}, 3), nil},
		{
			"缺少维度",
			Selector("", 1),
			map[string][]string{"dimension": {"may not be blank"}},
		},
		{
			"嵌套错误路径",
			And(Selector("a", 1), Not(Regex("b", ""))),
			map[string][]string{"fields[1].field.pattern": {"may not be blank"}},
		},
		{
			"空and",
			&Filter{Type: TypeAnd},
			map[string][]string{"fields": {"must be a list with at least one filter"}},
		},
		{
			"not缺少子节点",
			&Filter{Type: TypeNot},
			map[string][]string{"field": {"may not be blank"}},
		},
		{
			"字段不被类型支持",
			&Filter{Type: TypeSelector, Dimension: "a", Value: 1, Pattern: "x"},
			map[string][]string{"pattern": {"is not supported by type=selector"}},
		},
		{
			"非法脚本",
			Javascript("a", "{ return true; }"),
			map[string][]string{"function": {"invalid javascript function: missing function keyword"}},
		},
		{
			"空间边界非法",
			Spatial("a", &Bound{Type: BoundRectangular, MinCoords: []float64{1}}),
			map[string][]string{
				"bound.maxCoords": {"must be a list of coordinates", "must have as many coordinates as minCoords"},
			},
		},
		{
			"半径非法",
			Spatial("a", Radius(nil, 0)),
			map[string][]string{
				"bound.coords": {"must be a list of coordinates"},
				"bound.radius": {"must be greater than 0"},
			},
		},
		{
			"未知类型",
			&Filter{Type: "bound", Dimension: "a"},
			map[string][]string{
				"type":      {`"bound" is not a valid filter type`},
				"dimension": {"is not supported by type=bound"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.filter.Validate()
			if tt.expected == nil {
				assert.Empty(t, errs)
				assert.True(t, tt.filter.Valid())
				return
			}
			got := map[string][]string{}
			for _, f := range errs.Fields() {
				got[f] = errs.On(f)
			}
			assert.Equal(t, tt.expected, got)
			assert.False(t, tt.filter.Valid())
		})
	}
}

func TestFilter_ValidateNil(t *testing.T) {
	var f *Filter
	assert.Empty(t, f.Validate())
}
