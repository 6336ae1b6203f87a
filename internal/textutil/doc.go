// Package textutil provides small string helpers shared by the
// classification and resolution components.
package textutil
