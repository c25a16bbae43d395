package report

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSafeLog(t *testing.T) {
	Convey("SafeLog(0) is negative infinity; SafeLog of a positive value matches math.Log", t, func() {
		So(math.IsInf(SafeLog(0), -1), ShouldBeTrue)
		So(SafeLog(math.E), ShouldAlmostEqual, 1.0)
	})
}

func TestFormatFloat(t *testing.T) {
	Convey("Given zero and positive values", t, func() {
		Convey("Zero logs render as the -inf token", func() {
			So(FormatFloat(SafeLog(0)), ShouldEqual, "-inf")
		})
		Convey("Positive values render fixed-point", func() {
			So(FormatFloat(1.5), ShouldEqual, "1.500000")
		})
	})
}

func TestPercentage(t *testing.T) {
	Convey("Given a zero total", t, func() {
		So(Percentage(3, 0), ShouldEqual, FormatFloat(0))
	})
	Convey("Given a nonzero total", t, func() {
		So(Percentage(1, 4), ShouldEqual, "25.00")
	})
}

func TestMainStatsWritesAppendable(t *testing.T) {
	Convey("Given a temp output folder", t, func() {
		dir := t.TempDir()

		Convey("MainStats appends rather than truncates across two calls", func() {
			methodCounts := [7]int{5, 2, 0, 0, 0, 1, 0}
			err := MainStats(dir, 8, 10, methodCounts, []string{"human", "bot"}, []int{5, 3})
			So(err, ShouldBeNil)
			err = MainStats(dir, 8, 10, methodCounts, []string{"human", "bot"}, []int{5, 3})
			So(err, ShouldBeNil)

			data, readErr := os.ReadFile(filepath.Join(dir, "main_stats.dat"))
			So(readErr, ShouldBeNil)
			So(len(data), ShouldBeGreaterThan, 0)
			So(strings.Count(string(data), "total_follows 8\n"), ShouldEqual, 2)
		})
	})
}

func TestCategoriesDistroTruncates(t *testing.T) {
	Convey("Given a temp output folder", t, func() {
		dir := t.TempDir()
		So(CategoriesDistro(dir, []int{3, 1, 0}), ShouldBeNil)
		first, _ := os.ReadFile(filepath.Join(dir, "Categories_Distro.dat"))

		So(CategoriesDistro(dir, []int{9}), ShouldBeNil)
		second, _ := os.ReadFile(filepath.Join(dir, "Categories_Distro.dat"))

		So(len(second), ShouldBeLessThan, len(first))
	})
}

func TestMonthlyDegreeDistributionsZeroPadsMonth(t *testing.T) {
	Convey("Given month 7", t, func() {
		dir := t.TempDir()
		So(MonthlyDegreeDistributions(dir, 7, []float64{0.5}, []float64{0.5}, []float64{1.0}), ShouldBeNil)

		_, err := os.Stat(filepath.Join(dir, "out-degree_distribution_month_007.dat"))
		So(err, ShouldBeNil)
	})
}
