// Package webgpu implements the WebGPU backend: the minimum-reduction kernels
// as WGSL compute shaders run through go-webgpu (zero-CGO bindings).
//
// The GPU path is available on windows builds; elsewhere New reports an error
// and IsAvailable returns false.
package webgpu

// workgroupSize is the number of invocations per workgroup. The forward
// shader's workgroup scratch array is sized to match.
const workgroupSize = 256

// minForwardShader reduces chunk_len consecutive logical elements into one
// output slot.
//
// Each invocation loads one logical element through the strided layout into
// workgroup scratch. Chunks that fit inside the workgroup are folded by a tree
// of halving steps; chunks that straddle workgroups are folded per workgroup
// and merged through the atomic min on the output. The step count depends only
// on uniform parameters, so every invocation reaches every workgroupBarrier.
// Invocations past numel hold +Inf and never compare or write.
//
// output stores f32 bit patterns; the atomic min is a compare-exchange loop
// over an order-preserving u32 key of those bits.
const minForwardShader = `
struct Params {
    numel: u32,
    chunk_len: u32,
    ndim: u32,
    inf_bits: u32, // +Inf bit pattern, supplied by the host
}

@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read> geometry: array<u32>; // dims then strides
@group(0) @binding(2) var<storage, read_write> output: array<atomic<u32>>;
@group(0) @binding(3) var<uniform> params: Params;

var<workgroup> scratch: array<f32, 256>;

fn is_nan(x: f32) -> bool {
    return (bitcast<u32>(x) & 0x7fffffffu) > 0x7f800000u;
}

// Prefers a number over NaN and -0 over +0.
fn fmin_nan(a: f32, b: f32) -> f32 {
    if (is_nan(a)) {
        return b;
    }
    if (is_nan(b)) {
        return a;
    }
    if (order_key(bitcast<u32>(b)) < order_key(bitcast<u32>(a))) {
        return b;
    }
    return a;
}

// Monotonic in the float order, with -0 below +0.
fn order_key(bits: u32) -> u32 {
    if ((bits & 0x80000000u) != 0u) {
        return ~bits;
    }
    return bits | 0x80000000u;
}

fn atomic_min_f32(slot: u32, v: f32) {
    if (is_nan(v)) {
        return;
    }
    let bits = bitcast<u32>(v);
    var old = atomicLoad(&output[slot]);
    loop {
        if (order_key(old) <= order_key(bits)) {
            break;
        }
        let result = atomicCompareExchangeWeak(&output[slot], old, bits);
        if (result.exchanged) {
            break;
        }
        old = result.old_value;
    }
}

fn strided_index(i: u32) -> u32 {
    var rem = i;
    var offset = 0u;
    var k = params.ndim;
    while (k > 0u) {
        k = k - 1u;
        let d = geometry[k];
        offset = offset + (rem % d) * geometry[params.ndim + k];
        rem = rem / d;
    }
    return offset;
}

@compute @workgroup_size(256)
fn main(
    @builtin(local_invocation_id) local_id: vec3<u32>,
    @builtin(workgroup_id) workgroup_id: vec3<u32>,
    @builtin(num_workgroups) num_workgroups: vec3<u32>
) {
    let tid = local_id.x;
    let base = (workgroup_id.y * num_workgroups.x + workgroup_id.x) * 256u;
    let gid = base + tid;
    let valid = gid < params.numel;

    var value = bitcast<f32>(params.inf_bits);
    if (valid) {
        value = input[strided_index(gid)];
    }
    scratch[tid] = value;

    let chunk_len = params.chunk_len;
    let chunk = gid / chunk_len;
    let pos = gid % chunk_len;
    var lo = 0u;
    if (tid > pos) {
        lo = tid - pos;
    }
    var hi = 0u;
    if (valid) {
        hi = min(min((chunk + 1u) * chunk_len - base, 256u), params.numel - base);
    }
    workgroupBarrier();

    let span = min(chunk_len, 256u);
    var first = 1u;
    while (first < span) {
        first = first << 1u;
    }
    for (var s = first >> 1u; s > 0u; s = s >> 1u) {
        if (valid && tid - lo < s && tid + s < hi) {
            scratch[tid] = fmin_nan(scratch[tid], scratch[tid + s]);
        }
        workgroupBarrier();
    }

    if (valid && tid == lo) {
        atomic_min_f32(chunk, scratch[tid]);
    }
}
`

// minBackwardShader routes output gradients to the input positions holding
// the chunk minimum. One invocation per physical input position; positions are
// distinct, so grad_input needs no atomics.
const minBackwardShader = `
struct Params {
    numel: u32,
    ndim: u32,
    scale: f32,
    _pad: u32,
}

@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read_write> grad_input: array<f32>;
@group(0) @binding(2) var<storage, read> output: array<f32>;
@group(0) @binding(3) var<storage, read> grad_output: array<f32>;
@group(0) @binding(4) var<storage, read> geometry: array<u32>; // dims, input strides, output strides
@group(0) @binding(5) var<uniform> params: Params;

fn is_nan(x: f32) -> bool {
    return (bitcast<u32>(x) & 0x7fffffffu) > 0x7f800000u;
}

@compute @workgroup_size(256)
fn main(
    @builtin(global_invocation_id) global_id: vec3<u32>,
    @builtin(num_workgroups) num_workgroups: vec3<u32>
) {
    let p = global_id.y * num_workgroups.x * 256u + global_id.x;
    if (p >= params.numel) {
        return;
    }
    let ndim = params.ndim;

    var idx = 0u;
    for (var k = 0u; k < ndim; k = k + 1u) {
        let d = geometry[k];
        let s = geometry[ndim + k];
        idx = idx * d;
        if (s != 0u) {
            idx = idx + (p / s) % d;
        }
    }

    var o = 0u;
    var k = ndim;
    while (k > 0u) {
        k = k - 1u;
        let d = geometry[k];
        o = o + (idx % d) * geometry[2u * ndim + k];
        idx = idx / d;
    }

    let x = input[p];
    if (!is_nan(x) && x == output[o]) {
        grad_input[p] = grad_input[p] + grad_output[o] * params.scale;
    }
}
`
