package questionbank

import "strings"

// naturalLess orders chapter codes the way a human reads them: digit runs
// compare numerically and everything else compares case-insensitively, so
// ch1 < ch2 < ch10 instead of the lexical ch1 < ch10 < ch2.
func naturalLess(a, b string) bool {
	return naturalCompare(a, b) < 0
}

func naturalCompare(a, b string) int {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if isDigit(a[i]) && isDigit(b[j]) {
			aStart, bStart := i, j
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			aNum := strings.TrimLeft(a[aStart:i], "0")
			bNum := strings.TrimLeft(b[bStart:j], "0")
			if len(aNum) != len(bNum) {
				return len(aNum) - len(bNum)
			}
			if c := strings.Compare(aNum, bNum); c != 0 {
				return c
			}
			continue
		}
		if a[i] != b[j] {
			return int(a[i]) - int(b[j])
		}
		i++
		j++
	}
	return (len(a) - i) - (len(b) - j)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
