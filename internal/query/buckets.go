package query

// Bucket is one histogram bar. Min and Max are the labelled bounds.
type Bucket struct {
	Label     string
	Min       float64
	Max       float64
	Unbounded bool
}

// Buckets is the fixed histogram table, in output order.
var Buckets = []Bucket{
	{Label: "0-100", Min: 0, Max: 100},
	{Label: "101-200", Min: 101, Max: 200},
	{Label: "201-300", Min: 201, Max: 300},
	{Label: "301-400", Min: 301, Max: 400},
	{Label: "401-500", Min: 401, Max: 500},
	{Label: "501-600", Min: 501, Max: 600},
	{Label: "601-700", Min: 601, Max: 700},
	{Label: "701-800", Min: 701, Max: 800},
	{Label: "801-900", Min: 801, Max: 900},
	{Label: "901+", Min: 901, Unbounded: true},
}

// Range is the price clause used to count a bucket. Every bucket after the
// first starts just above the previous bucket's upper bound, so fractional
// prices such as 100.5 land in 101-200 instead of falling between bars.
func (b Bucket) Range() PriceRange {
	r := PriceRange{Min: b.Min, Max: b.Max, Bounded: !b.Unbounded}
	if b.Min > 0 {
		r.Min = b.Min - 1
		r.MinExclusive = true
	}
	return r
}

// BucketFor returns the index of the bucket holding price, or -1 for
// negative prices.
func BucketFor(price float64) int {
	for i, b := range Buckets {
		if b.Range().Contains(price) {
			return i
		}
	}
	return -1
}
