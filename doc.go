/*
Package texthumb renders thumbnail previews of .tex texture containers.

A .tex file starts with a fixed 40-byte header describing the texture
(dimensions, mip count, pixel format) and stores the offset of the raw pixel
payload at byte 0xB8. The payload already uses DirectX texel layouts, so the
package rebuilds a DDS header in front of it (classic, or DX10-extended when
the legacy FourCC cannot express the format) and hands the result to an
imaging backend that decodes, converts to BGRA8 and resizes.

The pipeline is split into a header translator (Translate), a preview
renderer (Renderer) and a Provider that binds a stream once and serves
thumbnails the way a shell thumbnail handler does.
*/
package texthumb
