package httpresp

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestListRendersEmptyArray(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	List[string](c, nil)

	if got, want := w.Body.String(), `{"data":[],"total":0}`; got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}

func TestPage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Page(c, []int{1, 2}, 2, 2, 7)

	if got, want := w.Body.String(), `{"data":[1,2],"page":2,"limit":2,"total":7}`; got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}
