package domain

import "errors"

// Storage level errors translated by the usecases.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrSlugTaken = errors.New("slug already exists")
)

// Contact pipeline rejections.
var (
	ErrSpamRejected   = errors.New("spam rejected")
	ErrTooFast        = errors.New("submitted too fast")
	ErrDispatchFailed = errors.New("email dispatch failed")
)
