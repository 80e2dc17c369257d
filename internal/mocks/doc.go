/*
Package mocks will have all the mocks of the library, we'll try to use mocking using blackbox
testing and integration tests whenever is possible.
*/
package mocks

// limit mocks.
//go:generate mockery -output ./limit -dir ../../limit -name Limiter
