// Package image1bit provides a 1-bit monochrome image format and the byte
// packing used by monochrome OLED bitmaps.
//
// A Bitmap is a row-major grid of on/off pixels. Pack flattens it into the
// layout expected by Adafruit_GFX drawBitmap for frames whose width is a
// multiple of 8, and by the generated headers in general: 8 pixels per byte,
// most significant bit first, without per-row padding.
//
// Memory layout example for a 3x4 bitmap (12 pixels):
//
//	Row 0:  1 0 1
//	Row 1:  1 1 0
//	Row 2:  0 0 0
//	Row 3:  1 1 1
//	Stream: 1 0 1 1 1 0 0 0 | 0 1 1 1 (0 0 0 0)
//	Bytes:  0xB8              0x70
//
// The second row spills into the first byte; the last byte is padded with
// zero bits on the right.
//
// This package provides:
//
// - Bit: A color type representing a lit (true) or dark (false) pixel
// - BitModel: A color model converting standard Go colors to Bit
// - Bitmap: An image.Image / draw.Image implementation
// - Pack and Unpack: conversion to and from the packed byte stream
//
// Example usage:
//
//	// Create a 128x64 bitmap
//	img := image1bit.NewBitmap(image.Rect(0, 0, 128, 64))
//
//	// Light a pixel
//	img.SetBit(10, 20, image1bit.On)
//
//	// Pack it for a PROGMEM array
//	data := image1bit.Pack(img)
//	println(len(data)) // Output: 1024
package image1bit
