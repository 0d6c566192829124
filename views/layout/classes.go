// Package layout holds the page shell shared by the admin panel and the
// public pages, and the Tailwind class sets the components build on.
package layout

//go:generate go tool templ generate -path ..

import twmerge "github.com/Oudwins/tailwind-merge-go"

const (
	ButtonClasses = "inline-flex items-center justify-center rounded-md bg-emerald-700 px-4 py-2 text-sm font-semibold text-white hover:bg-emerald-800"
	CardClasses   = "rounded-lg border border-slate-200 bg-white p-6 shadow-sm"
	InputClasses  = "mt-1 block w-full rounded-md border border-slate-300 px-3 py-2 text-sm focus:border-emerald-600 focus:outline-none"
)

// Classes merges Tailwind class lists; later classes win over conflicting
// earlier ones
func Classes(base string, extra ...string) string {
	return twmerge.Merge(append([]string{base}, extra...)...)
}
