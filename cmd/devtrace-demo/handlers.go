package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/blackwell-systems/devtrace"
	"github.com/pkg/errors"
)

type inventory map[string]int

func (inv inventory) reserve(sku string, n int) {
	left, ok := inv[sku]
	if !ok {
		panic(fmt.Sprintf("unknown sku %q", sku))
	}
	inv[sku] = left - n
}

func panicHandler(w http.ResponseWriter, r *http.Request) {
	inventory{"apple": 3}.reserve(r.URL.Query().Get("sku"), 1)
	fmt.Fprintln(w, "reserved")
}

func loadOrder(id string) error {
	if _, err := strconv.Atoi(id); err != nil {
		return errors.Wrapf(err, "load order %q", id)
	}
	return errors.New("order store unreachable")
}

func errorHandler(w http.ResponseWriter, r *http.Request) error {
	if err := loadOrder(r.URL.Query().Get("id")); err != nil {
		return errors.WithMessage(err, "render order page")
	}
	fmt.Fprintln(w, "order")
	return nil
}

func callbackHandler(w http.ResponseWriter, r *http.Request, respond func(), raise func(error)) {
	time.AfterFunc(10*time.Millisecond, func() {
		raise(errors.New("callback worker lost its connection"))
	})
}

func pendingHandler(w http.ResponseWriter, r *http.Request) devtrace.Pending {
	return devtrace.Async(func() error {
		var totals map[string]int
		totals["orders"]++
		return nil
	})
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, "ok")
}
