//go:build darwin

package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework AppKit -framework Foundation
#import <AppKit/AppKit.h>
#import <ApplicationServices/ApplicationServices.h>
#include <stdlib.h>
#include <string.h>

typedef struct {
	double x;
	double y;
	double w;
	double h;
} st_rect;

typedef struct {
	long long id;
	int pid;
	int layer;
	char owner[128];
} st_window;

static int st_screen_count(void) {
	@autoreleasepool {
		return (int)[[NSScreen screens] count];
	}
}

static int st_screen_at(int i, st_rect *frame, st_rect *visible, char *name, int nameLen) {
	@autoreleasepool {
		NSArray *screens = [NSScreen screens];
		if (i < 0 || i >= (int)[screens count]) {
			return 0;
		}
		NSScreen *s = [screens objectAtIndex:i];
		NSRect f = [s frame];
		NSRect v = [s visibleFrame];
		frame->x = f.origin.x;
		frame->y = f.origin.y;
		frame->w = f.size.width;
		frame->h = f.size.height;
		visible->x = v.origin.x;
		visible->y = v.origin.y;
		visible->w = v.size.width;
		visible->h = v.size.height;

		name[0] = 0;
		if ([s respondsToSelector:@selector(localizedName)]) {
			NSString *n = [s valueForKey:@"localizedName"];
			if (n != nil) {
				strlcpy(name, [n UTF8String], nameLen);
			}
		}
		return 1;
	}
}

static int st_frontmost_pid(void) {
	@autoreleasepool {
		NSRunningApplication *app = [[NSWorkspace sharedWorkspace] frontmostApplication];
		if (app == nil) {
			return -1;
		}
		return (int)[app processIdentifier];
	}
}

static AXUIElementRef st_focused_window(int pid) {
	AXUIElementRef app = AXUIElementCreateApplication((pid_t)pid);
	if (app == NULL) {
		return NULL;
	}
	CFTypeRef win = NULL;
	AXError err = AXUIElementCopyAttributeValue(app, kAXFocusedWindowAttribute, &win);
	CFRelease(app);
	if (err != kAXErrorSuccess || win == NULL) {
		return NULL;
	}
	return (AXUIElementRef)win;
}

static int st_window_position(AXUIElementRef win, double *x, double *y) {
	CFTypeRef value = NULL;
	if (AXUIElementCopyAttributeValue(win, kAXPositionAttribute, &value) != kAXErrorSuccess || value == NULL) {
		return 0;
	}
	CGPoint p;
	Boolean ok = AXValueGetValue((AXValueRef)value, kAXValueTypeCGPoint, &p);
	CFRelease(value);
	if (!ok) {
		return 0;
	}
	*x = p.x;
	*y = p.y;
	return 1;
}

static int st_set_position(AXUIElementRef win, double x, double y) {
	CGPoint p = CGPointMake(x, y);
	AXValueRef v = AXValueCreate(kAXValueTypeCGPoint, &p);
	if (v == NULL) {
		return (int)kAXErrorFailure;
	}
	AXError err = AXUIElementSetAttributeValue(win, kAXPositionAttribute, v);
	CFRelease(v);
	return (int)err;
}

static int st_set_size(AXUIElementRef win, double w, double h) {
	CGSize s = CGSizeMake(w, h);
	AXValueRef v = AXValueCreate(kAXValueTypeCGSize, &s);
	if (v == NULL) {
		return (int)kAXErrorFailure;
	}
	AXError err = AXUIElementSetAttributeValue(win, kAXSizeAttribute, v);
	CFRelease(v);
	return (int)err;
}

static void st_release(AXUIElementRef ref) {
	if (ref != NULL) {
		CFRelease(ref);
	}
}

static int st_window_list(st_window *out, int max) {
	CFArrayRef list = CGWindowListCopyWindowInfo(
		kCGWindowListOptionOnScreenOnly | kCGWindowListExcludeDesktopElements, kCGNullWindowID);
	if (list == NULL) {
		return 0;
	}
	int count = 0;
	CFIndex n = CFArrayGetCount(list);
	for (CFIndex i = 0; i < n && count < max; i++) {
		CFDictionaryRef info = (CFDictionaryRef)CFArrayGetValueAtIndex(list, i);
		CFNumberRef layer = (CFNumberRef)CFDictionaryGetValue(info, kCGWindowLayer);
		CFNumberRef pid = (CFNumberRef)CFDictionaryGetValue(info, kCGWindowOwnerPID);
		if (layer == NULL || pid == NULL) {
			continue;
		}
		st_window *w = &out[count];
		memset(w, 0, sizeof(*w));
		CFNumberGetValue(layer, kCFNumberIntType, &w->layer);
		CFNumberGetValue(pid, kCFNumberIntType, &w->pid);
		CFNumberRef num = (CFNumberRef)CFDictionaryGetValue(info, kCGWindowNumber);
		if (num != NULL) {
			CFNumberGetValue(num, kCFNumberLongLongType, &w->id);
		}
		CFStringRef owner = (CFStringRef)CFDictionaryGetValue(info, kCGWindowOwnerName);
		if (owner != NULL) {
			CFStringGetCString(owner, w->owner, sizeof(w->owner), kCFStringEncodingUTF8);
		}
		count++;
	}
	CFRelease(list);
	return count;
}

static int st_trusted(int prompt) {
	@autoreleasepool {
		NSDictionary *opts = @{(__bridge id)kAXTrustedCheckOptionPrompt: prompt ? @YES : @NO};
		return AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)opts) ? 1 : 0;
	}
}
*/
import "C"

import (
	"fmt"
	"sync"

	"github.com/1broseidon/snaptile/internal/snap"
)

const maxListedWindows = 512

// DarwinBackend drives windows through the accessibility API. Accessibility
// elements are kept in a handle table until released.
type DarwinBackend struct {
	mu      sync.Mutex
	next    WindowHandle
	windows map[WindowHandle]C.AXUIElementRef
}

var _ Backend = (*DarwinBackend)(nil)

// New returns the accessibility backend. display is ignored on macOS.
func New(string) (*DarwinBackend, error) {
	return &DarwinBackend{windows: make(map[WindowHandle]C.AXUIElementRef)}, nil
}

// Disconnect releases any handles still held.
func (b *DarwinBackend) Disconnect() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for h, ref := range b.windows {
		C.st_release(ref)
		delete(b.windows, h)
	}
}

func (b *DarwinBackend) Screens() ([]Screen, error) {
	n := int(C.st_screen_count())
	if n == 0 {
		return nil, ErrNoScreens
	}

	screens := make([]Screen, 0, n)
	var name [128]C.char
	for i := 0; i < n; i++ {
		var frame, visible C.st_rect
		if C.st_screen_at(C.int(i), &frame, &visible, &name[0], C.int(len(name))) == 0 {
			continue
		}
		label := C.GoString(&name[0])
		if label == "" {
			label = fmt.Sprintf("Display %d", i+1)
		}
		screens = append(screens, Screen{
			ID:      i,
			Name:    label,
			Frame:   rectFromC(frame),
			Visible: rectFromC(visible),
		})
	}
	return screens, nil
}

func (b *DarwinBackend) FocusedWindow() (WindowHandle, error) {
	pid := int(C.st_frontmost_pid())
	if pid <= 0 {
		return 0, ErrNoWindow
	}
	return b.focusedWindowOf(pid)
}

func (b *DarwinBackend) WindowOrigin(h WindowHandle) (snap.Point, error) {
	ref, err := b.lookup(h)
	if err != nil {
		return snap.Point{}, err
	}
	var x, y C.double
	if C.st_window_position(ref, &x, &y) == 0 {
		return snap.Point{}, fmt.Errorf("window position unavailable")
	}
	return snap.Point{X: float64(x), Y: float64(y)}, nil
}

func (b *DarwinBackend) SetPosition(h WindowHandle, p snap.Point) error {
	ref, err := b.lookup(h)
	if err != nil {
		return err
	}
	if code := C.st_set_position(ref, C.double(p.X), C.double(p.Y)); code != 0 {
		return fmt.Errorf("set position: AXError %d", int(code))
	}
	return nil
}

func (b *DarwinBackend) SetSize(h WindowHandle, s snap.Size) error {
	ref, err := b.lookup(h)
	if err != nil {
		return err
	}
	if code := C.st_set_size(ref, C.double(s.Width), C.double(s.Height)); code != 0 {
		return fmt.Errorf("set size: AXError %d", int(code))
	}
	return nil
}

func (b *DarwinBackend) WindowList() ([]WindowInfo, error) {
	buf := make([]C.st_window, maxListedWindows)
	n := int(C.st_window_list(&buf[0], C.int(len(buf))))

	infos := make([]WindowInfo, 0, n)
	for i := 0; i < n; i++ {
		w := buf[i]
		infos = append(infos, WindowInfo{
			ID:    uint64(w.id),
			PID:   int(w.pid),
			Layer: int(w.layer),
			Title: C.GoString(&w.owner[0]),
		})
	}
	return infos, nil
}

func (b *DarwinBackend) WindowFor(info WindowInfo) (WindowHandle, error) {
	if info.PID <= 0 {
		return 0, ErrNoWindow
	}
	return b.focusedWindowOf(info.PID)
}

func (b *DarwinBackend) Release(h WindowHandle) {
	b.mu.Lock()
	ref, ok := b.windows[h]
	delete(b.windows, h)
	b.mu.Unlock()
	if ok {
		C.st_release(ref)
	}
}

func (b *DarwinBackend) Trusted(prompt bool) bool {
	p := C.int(0)
	if prompt {
		p = 1
	}
	return C.st_trusted(p) != 0
}

func (b *DarwinBackend) focusedWindowOf(pid int) (WindowHandle, error) {
	ref := C.st_focused_window(C.int(pid))
	if ref == nil {
		return 0, ErrNoWindow
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	b.windows[b.next] = ref
	return b.next, nil
}

func (b *DarwinBackend) lookup(h WindowHandle) (C.AXUIElementRef, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ref, ok := b.windows[h]
	if !ok {
		return nil, fmt.Errorf("unknown window handle %d", h)
	}
	return ref, nil
}

func rectFromC(r C.st_rect) snap.Rect {
	return snap.Rect{
		X:      float64(r.x),
		Y:      float64(r.y),
		Width:  float64(r.w),
		Height: float64(r.h),
	}
}
