package encoding

// maxTreemapLevels bounds the treemap hierarchy depth.
const maxTreemapLevels = 3

// assignRoles fills the roles of chart from the result shape, taking the
// first column of each needed kind in schema order.
func assignRoles(chart ChartType, s shape) Encoding {
	enc := Encoding{Chart: chart, Roles: map[Role]string{}}
	x, y, hasXY := s.defaultXY()

	switch chart {
	case Bar:
		switch {
		case s.total == 1 && len(s.numeric) == 0:
			enc.Roles[RoleX] = s.columns[0].Name
			enc.Transform = TransformValueCount
		case hasXY && s.isNumeric(x) && s.isNumeric(y):
			enc.Roles[RoleX] = x
			enc.Transform = TransformHistogram
		case hasXY:
			enc.Roles[RoleX], enc.Roles[RoleY] = x, y
		case s.total > 0:
			enc.Roles[RoleX] = s.columns[0].Name
			enc.Transform = TransformValueCount
		default:
			enc.insufficient()
		}

	case Line, Area:
		if hasXY {
			enc.Roles[RoleX], enc.Roles[RoleY] = x, y
		} else {
			enc.insufficient()
		}

	case Pie:
		switch {
		case len(s.categorical) >= 1 && len(s.numeric) >= 1:
			enc.Roles[RoleNames] = s.categorical[0].Name
			enc.Roles[RoleValues] = s.numeric[0].Name
		case len(s.categorical) >= 1:
			enc.Roles[RoleNames] = s.categorical[0].Name
			enc.Transform = TransformValueCount
		default:
			enc.insufficient()
		}

	case Scatter:
		if len(s.numeric) >= 2 {
			enc.Roles[RoleX] = s.numeric[0].Name
			enc.Roles[RoleY] = s.numeric[1].Name
			s.colorBy(&enc)
		} else {
			enc.insufficient()
		}

	case Histogram:
		if len(s.numeric) >= 1 {
			enc.Roles[RoleX] = s.numeric[0].Name
		} else {
			enc.insufficient()
		}

	case Box:
		if len(s.numeric) >= 1 {
			enc.Roles[RoleY] = s.numeric[0].Name
			if len(s.categorical) > 0 {
				enc.Roles[RoleX] = s.categorical[0].Name
			}
		} else {
			enc.insufficient()
		}

	case Bubble:
		if len(s.numeric) >= 3 {
			enc.Roles[RoleX] = s.numeric[0].Name
			enc.Roles[RoleY] = s.numeric[1].Name
			enc.Roles[RoleSize] = s.numeric[2].Name
			s.colorBy(&enc)
		} else {
			enc.insufficient()
		}

	case Heatmap:
		switch {
		case len(s.categorical) >= 2 && len(s.numeric) >= 1:
			enc.Roles[RoleX] = s.categorical[0].Name
			enc.Roles[RoleY] = s.categorical[1].Name
			enc.Roles[RoleColor] = s.numeric[0].Name
		case len(s.numeric) >= 3:
			enc.Transform = TransformCorrelation
			enc.Note = "correlation matrix"
		default:
			enc.insufficient()
		}

	case Treemap:
		if len(s.categorical) >= 1 && len(s.numeric) >= 1 {
			n := min(len(s.categorical), maxTreemapLevels)
			for _, c := range s.categorical[:n] {
				enc.Path = append(enc.Path, c.Name)
			}
			enc.Roles[RoleValues] = s.numeric[0].Name
		} else {
			enc.insufficient()
		}

	case Table:
		// Every column is shown; no roles.

	default:
		enc.insufficient()
	}

	return enc
}

func (e *Encoding) insufficient() {
	e.Placeholder = "insufficient data for " + string(e.Chart)
}

// defaultXY picks the x and y columns shared by bar, line and area charts:
// a date against a numeric (or categorical) column, else categorical
// against numeric, else two numerics, else two categoricals, else a lone
// column against itself.
func (s shape) defaultXY() (x, y string, ok bool) {
	switch {
	case len(s.dates) > 0:
		x = s.dates[0].Name
		switch {
		case len(s.numeric) > 0:
			return x, s.numeric[0].Name, true
		case len(s.categorical) > 0:
			return x, s.categorical[0].Name, true
		}
		return x, "", false
	case len(s.categorical) > 0 && len(s.numeric) > 0:
		return s.categorical[0].Name, s.numeric[0].Name, true
	case len(s.numeric) >= 2:
		return s.numeric[0].Name, s.numeric[1].Name, true
	case len(s.categorical) >= 2:
		return s.categorical[0].Name, s.categorical[1].Name, true
	case s.total == 1:
		return s.columns[0].Name, s.columns[0].Name, true
	}
	return "", "", false
}

func (s shape) colorBy(enc *Encoding) {
	if len(s.categorical) > 0 {
		enc.Roles[RoleColor] = s.categorical[0].Name
	}
}

func (s shape) isNumeric(name string) bool {
	for _, c := range s.numeric {
		if c.Name == name {
			return true
		}
	}
	return false
}
