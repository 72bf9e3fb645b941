//go:build !itm_readycheck

package itm

const checkReadiness = false
