// Package report implements the text-report formatting spec.md §6 treats as
// an external collaborator ("File output formatting for human-readable
// reports... only their consumed interfaces are specified"): column writers
// for the five families of output file followaction.Dump produces. It is
// deliberately thin and stdlib-based (see DESIGN.md: no templating or
// struct-tag-driven formatting library in the example pack fits a handful of
// fixed-column text reports better than fmt.Fprintf).
package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// SafeLog returns math.Log(x), except it returns negative infinity for x<=0
// instead of NaN/-Inf ambiguity, matching spec.md §6 "Log of zero is
// permitted to render as -inf".
func SafeLog(x float64) float64 {
	if x <= 0 {
		return math.Inf(-1)
	}
	return math.Log(x)
}

// FormatFloat renders a float64 the way every report file in this package
// renders one: fixed-point, except the SafeLog(0) sentinel prints as "-inf"
// (spec.md §6 "implementations must produce the same token their formatter
// uses").
func FormatFloat(x float64) string {
	if math.IsInf(x, -1) {
		return "-inf"
	}
	return fmt.Sprintf("%.6f", x)
}

// Percentage renders count/total as a percentage string, 0 when total is 0.
func Percentage(count, total int) string {
	if total == 0 {
		return FormatFloat(0)
	}
	return fmt.Sprintf("%.2f", 100*float64(count)/float64(total))
}

// MethodNames are the seven follow-method counter slots in report order,
// matching followaction's actual counter indices (spec.md §3 "indices 0..6
// reserve slots for random, twitter-suggest, agent, preferential-agent,
// hashtag, retweet, followback; the last two unused") rather than spec.md
// §6's main_stats.dat prose, which lists retweet before hashtag — the two
// passages disagree, and this order is the one the data is actually
// produced in, so it is the one the labels must match.
var MethodNames = [7]string{
	"Random", "Twitter_Suggest", "Agent", "Preferential_Agent",
	"Hashtag", "Retweet", "Followbacks",
}

func openAppend(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("report: mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("report: open %s: %w", path, err)
	}
	return f, nil
}

func openTruncate(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("report: mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("report: open %s: %w", path, err)
	}
	return f, nil
}

// MainStats appends one block of follow totals and per-method/per-type
// percentages to main_stats.dat (spec.md §6, "append mode").
func MainStats(folder string, totalFollows, totalAttempts int, methodCounts [7]int, typeNamesReverse []string, typeFollowsReverse []int) error {
	f, err := openAppend(filepath.Join(folder, "main_stats.dat"))
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "total_follows %d\n", totalFollows)
	fmt.Fprintf(f, "total_follow_attempts %d\n", totalAttempts)
	for i, name := range MethodNames {
		fmt.Fprintf(f, "%s %d %s%%\n", name, methodCounts[i], Percentage(methodCounts[i], totalAttempts))
	}
	for i, name := range typeNamesReverse {
		fmt.Fprintf(f, "%s_follows %d\n", name, typeFollowsReverse[i])
	}
	return nil
}

// CategoriesDistro truncates Categories_Distro.dat to a single line of bin
// sizes (spec.md §6).
func CategoriesDistro(folder string, binSizes []int) error {
	f, err := openTruncate(filepath.Join(folder, "Categories_Distro.dat"))
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprint(f, "Following | ")
	for k, n := range binSizes {
		fmt.Fprintf(f, "%d at %d|\t", n, k)
	}
	fmt.Fprintln(f)
	return nil
}

// DegreeDistroByFollowModel truncates dd_by_follow_model.dat: one row per
// degree with its probability and log-probability per method (spec.md §6).
func DegreeDistroByFollowModel(folder string, probsByMethod [7][]float64) error {
	f, err := openTruncate(filepath.Join(folder, "dd_by_follow_model.dat"))
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintln(f, "# degree  ln(degree)  [prob  ln(prob)] x 7 methods (Random, Twitter_Suggest, Agent, Preferential_Agent, Hashtag, Retweet, Followbacks)")

	maxDegree := 0
	for _, probs := range probsByMethod {
		if len(probs) > maxDegree {
			maxDegree = len(probs)
		}
	}

	for d := 0; d < maxDegree; d++ {
		fmt.Fprintf(f, "%d\t%s", d, FormatFloat(SafeLog(float64(d))))
		for _, probs := range probsByMethod {
			p := 0.0
			if d < len(probs) {
				p = probs[d]
			}
			fmt.Fprintf(f, "\t%s\t%s", FormatFloat(p), FormatFloat(SafeLog(p)))
		}
		fmt.Fprintln(f)
	}
	return nil
}

// TypeInfo summarizes one agent type's following/followed-by percentages and
// per-degree distributions, one <type>_info.dat file per type (spec.md §6,
// "one per type in reverse type order" — the caller supplies that order).
func TypeInfo(folder, typeName string, followingPct, followedByPct float64, inProb, outProb, cumProb []float64) error {
	f, err := openTruncate(filepath.Join(folder, typeName+"_info.dat"))
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "# %s\n", typeName)
	fmt.Fprintf(f, "following %s%%\n", FormatFloat(followingPct))
	fmt.Fprintf(f, "followed_by %s%%\n", FormatFloat(followedByPct))
	fmt.Fprintln(f, "# degree  in  out  cumulative  ln(in)  ln(out)  ln(cumulative)")
	for d := 0; d < len(inProb); d++ {
		in, out, cum := inProb[d], at(outProb, d), at(cumProb, d)
		fmt.Fprintf(f, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", d,
			FormatFloat(in), FormatFloat(out), FormatFloat(cum),
			FormatFloat(SafeLog(in)), FormatFloat(SafeLog(out)), FormatFloat(SafeLog(cum)))
	}
	return nil
}

func at(xs []float64, i int) float64 {
	if i < 0 || i >= len(xs) {
		return 0
	}
	return xs[i]
}

// MonthlyDegreeDistributions truncates the three per-month degree
// distribution files for the given zero-padded month (spec.md §6,
// "out-degree_distribution_month_<MMM>.dat" etc).
func MonthlyDegreeDistributions(folder string, month int, outDeg, inDeg, cumDeg []float64) error {
	suffix := fmt.Sprintf("%03d", month)
	files := []struct {
		name string
		data []float64
	}{
		{"out-degree_distribution_month_" + suffix + ".dat", outDeg},
		{"in-degree_distribution_month_" + suffix + ".dat", inDeg},
		{"cumulative-degree_distribution_month_" + suffix + ".dat", cumDeg},
	}

	for _, file := range files {
		f, err := openTruncate(filepath.Join(folder, file.name))
		if err != nil {
			return err
		}
		for d, p := range file.data {
			fmt.Fprintf(f, "%d\t%s\t%s\t%s\n", d, FormatFloat(p), FormatFloat(SafeLog(float64(d))), FormatFloat(SafeLog(p)))
		}
		f.Close()
	}
	return nil
}
