package caching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewKey(t *testing.T) {
	assert.Equal(t, "invoicedash:view:/dashboard/invoices|q=&page=1", viewKey("/dashboard/invoices", "q=&page=1"))
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `invoicedash:view:/a\*b\?\[c\]`, escapeGlob("invoicedash:view:/a*b?[c]"))
	assert.Equal(t, "/dashboard/invoices", escapeGlob("/dashboard/invoices"))
}
