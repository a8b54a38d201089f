package lang

// GenerateFunc produces a candidate reply. attempt is 0 for the initial call
// and counts corrective retries afterwards; previous carries the most recent
// rejected reply so the caller can quote it in a correction prompt.
type GenerateFunc func(attempt int, previous string) (string, error)

// ValidateFunc reports whether a candidate reply is acceptable.
type ValidateFunc func(reply string) bool

// Result captures the outcome of an Enforce run.
type Result struct {
	Reply   string
	Matched bool
	Retries int
}

// Enforce runs generate once and, while validate rejects the reply, re-runs it
// with the rejected text up to maxRetries additional attempts. It stops as
// soon as validate passes. When the bound is exhausted the last reply is kept
// anyway; a failed retry call also keeps the previous reply rather than
// discarding it. Only a failing initial call returns an error.
func Enforce(generate GenerateFunc, validate ValidateFunc, maxRetries int) (Result, error) {
	reply, err := generate(0, "")
	if err != nil {
		return Result{}, err
	}

	res := Result{Reply: reply, Matched: validate(reply)}
	for !res.Matched && res.Retries < maxRetries {
		next, err := generate(res.Retries+1, res.Reply)
		if err != nil {
			break
		}
		res.Retries++
		res.Reply = next
		res.Matched = validate(next)
	}
	return res, nil
}
