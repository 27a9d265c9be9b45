// Package dispatchtest provides testing utilities for Callback[T]
// implementations and for code that drives an EventDispatcher.
//
// It makes it possible to unit test a callback without a real Kubernetes
// cluster:
//
//	func TestWidgetCallback_CreateOrUpdate(t *testing.T) {
//	    obj := &v1.Widget{ObjectMeta: metav1.ObjectMeta{Name: "w"}}
//	    facade := dispatchtest.NewFakeFacade[*v1.Widget]()
//
//	    cb := &WidgetCallback{}
//	    verdict, err := cb.CreateOrUpdate(context.Background(), obj, dispatchtest.NewFakeContext())
//
//	    dispatchtest.AssertNoError(t, err)
//	    dispatchtest.AssertNoUpdate(t, verdict)
//	}
package dispatchtest
