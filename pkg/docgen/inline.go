package docgen

import "strings"

const boldMarker = "**"

// SplitRuns 按非贪婪的 **...** 将一行文本切分为文本片段
// 粗体片段去掉标记，空片段丢弃，未闭合的 ** 原样保留
func SplitRuns(line string) []Run {
	var runs []Run
	rest := line
	for {
		start := strings.Index(rest, boldMarker)
		if start < 0 {
			break
		}
		inner := rest[start+len(boldMarker):]
		end := strings.Index(inner, boldMarker)
		if end < 0 {
			break
		}
		if start > 0 {
			runs = append(runs, Run{Text: rest[:start]})
		}
		if end > 0 {
			runs = append(runs, Run{Text: inner[:end], Bold: true})
		}
		rest = inner[end+len(boldMarker):]
	}
	if rest != "" {
		runs = append(runs, Run{Text: rest})
	}
	return runs
}
