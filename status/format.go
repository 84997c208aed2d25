package status

import "strconv"

func formatBool(v bool) string {
	return strconv.FormatBool(v)
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
