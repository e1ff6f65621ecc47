package districts

// Neighbouring oblast districts, keyed by internal id. Symmetry is not enforced.
var adjacency = map[int][]int{
	1:  {13, 4, 15, 6},
	2:  {14, 16, 7, 8},
	3:  {11, 16, 7, 12},
	4:  {5, 13, 14, 15},
	5:  {14, 15, 17, 4},
	6:  {9, 13, 15, 1},
	7:  {12, 16, 3, 2},
	8:  {2, 11, 14, 16},
	9:  {1, 6, 13, 15},
	10: {17, 18, 5, 7},
	11: {3, 8, 16, 7},
	12: {7, 3, 16, 18},
	13: {1, 4, 6, 15},
	14: {2, 5, 4, 8},
	15: {4, 5, 13, 6},
	16: {2, 3, 7, 8},
	17: {5, 10, 18, 14},
	18: {12, 7, 10, 17},
}

// Adjacent returns the neighbours of an internal district id in stored order.
// The centre and unknown ids have none.
func Adjacent(id int) []int {
	src := adjacency[id]
	out := make([]int, len(src))
	copy(out, src)
	return out
}
