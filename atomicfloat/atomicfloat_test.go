package atomicfloat

import (
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAdd(t *testing.T) {
	Convey("When multiple writers add to the value concurrently", t, func() {
		f := New(0.0)
		numOps := 2000
		numWriters := 100

		wg := sync.WaitGroup{}
		wg.Add(numWriters)
		for i := 0; i < numWriters; i++ {
			go func() {
				defer wg.Done()
				for j := 0; j < numOps; j++ {
					f.Add(1.0)
				}
			}()
		}
		wg.Wait()

		So(f.Load(), ShouldEqual, float64(numOps*numWriters))
	})
}

func TestStoreLoad(t *testing.T) {
	Convey("Store then Load round-trips the value", t, func() {
		f := New(1.5)
		f.Store(42.25)
		So(f.Load(), ShouldEqual, 42.25)
	})
}
